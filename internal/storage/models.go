package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRecord is the persisted summary of one built wiki page.
type PageRecord struct {
	bun.BaseModel `bun:"table:wiki_pages,alias:wp"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	WikiID    uuid.UUID `bun:"wiki_id,notnull,type:uuid" json:"wiki_id"`
	WikiTitle string    `bun:"wiki_title,notnull" json:"wiki_title"`
	Pack      string    `bun:"pack,notnull" json:"pack"`
	// Key is the slug of pack and page key; unique across all wikis.
	Key              string    `bun:"key,notnull,unique" json:"key"`
	PageID           string    `bun:"page_id" json:"page_id,omitempty"`
	EntityName       string    `bun:"entity_name" json:"entity_name,omitempty"`
	Title            string    `bun:"title,notnull" json:"title"`
	ShortDescription string    `bun:"short_description" json:"short_description,omitempty"`
	Icon             string    `bun:"icon" json:"icon,omitempty"`
	Background       string    `bun:"background" json:"background,omitempty"`
	RequiresResearch string    `bun:"requires_research" json:"requires_research,omitempty"`
	AlwaysSpoiler    bool      `bun:"always_spoiler,notnull,default:false" json:"always_spoiler"`
	Generated        bool      `bun:"generated,notnull,default:false" json:"generated"`
	Position         int       `bun:"position,notnull" json:"position"`
	ElementCount     int       `bun:"element_count,notnull" json:"element_count"`
	PageLinks        []string  `bun:"page_links,type:jsonb" json:"page_links,omitempty"`
	EntityLinks      []string  `bun:"entity_links,type:jsonb" json:"entity_links,omitempty"`
	Sources          []Source  `bun:"sources,type:jsonb" json:"sources,omitempty"`
	Fingerprint      string    `bun:"fingerprint,notnull" json:"fingerprint"`
	IndexedAt        time.Time `bun:"indexed_at,nullzero,default:current_timestamp" json:"indexed_at"`
}

// Source is a markup file that contributed to a page.
type Source struct {
	File     string `json:"file"`
	Checksum string `json:"checksum,omitempty"`
}
