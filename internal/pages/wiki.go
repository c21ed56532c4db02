package pages

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/identity"
)

// DefaultTitle is used when a wiki is created without a title.
const DefaultTitle = "Your Mod Name Here"

// Wiki is the ordered page collection of one content pack.
type Wiki struct {
	ID    uuid.UUID
	Title string
	Pack  *catalog.Pack
	Pages []*Page
}

// NewWiki returns an empty wiki for pack. The ID is derived from the pack
// name so it is stable across runs.
func NewWiki(title string, pack *catalog.Pack) *Wiki {
	if title == "" {
		title = DefaultTitle
	}
	return &Wiki{
		ID:    identity.WikiUUID(pack.DisplayName()),
		Title: title,
		Pack:  pack,
	}
}

// AddPage appends a page. nil pages are ignored.
func (w *Wiki) AddPage(page *Page) {
	if page != nil {
		w.Pages = append(w.Pages, page)
	}
}

// InsertPageFront places a page before every existing page.
func (w *Wiki) InsertPageFront(page *Page) {
	if page == nil {
		return
	}
	w.Pages = append([]*Page{page}, w.Pages...)
}

// FindPageByEntityID returns the first page generated from the definition
// named name.
func (w *Wiki) FindPageByEntityID(name string) *Page {
	if w == nil || name == "" {
		return nil
	}
	for _, page := range w.Pages {
		if page != nil && page.Def != nil && page.Def.Name == name {
			return page
		}
	}
	return nil
}

// FindPageByDef returns the first page generated from def.
func (w *Wiki) FindPageByDef(def *catalog.Definition) *Page {
	if w == nil || def == nil {
		return nil
	}
	for _, page := range w.Pages {
		if page != nil && page.Def == def {
			return page
		}
	}
	return nil
}

// FindPageByID returns the first page with the given ID. Generated pages
// carry no ID, so only authored pages match.
func (w *Wiki) FindPageByID(pageID string) *Page {
	if w == nil || pageID == "" {
		return nil
	}
	for _, page := range w.Pages {
		if page != nil && page.ID == pageID {
			return page
		}
	}
	return nil
}
