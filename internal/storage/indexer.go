package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/goliatone/go-wiki/internal/identity"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// SyncReport summarises an index synchronisation.
type SyncReport struct {
	Wikis     int
	Created   int
	Updated   int
	Unchanged int
	Removed   int
	// Duplicates lists page keys that appeared more than once in a wiki; only
	// the first page is indexed.
	Duplicates []string
}

// IndexerOption customises an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets the indexer logger.
func WithLogger(logger interfaces.Logger) IndexerOption {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithNow overrides the clock used for IndexedAt.
func WithNow(now func() time.Time) IndexerOption {
	return func(ix *Indexer) {
		if now != nil {
			ix.now = now
		}
	}
}

// Indexer mirrors the pages held by a registry into a PageRepository.
type Indexer struct {
	repo   PageRepository
	logger interfaces.Logger
	now    func() time.Time
}

// NewIndexer returns an indexer writing to repo.
func NewIndexer(repo PageRepository, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ix)
		}
	}
	return ix
}

// Sync writes every page of every registered wiki. Records whose fingerprint
// and position are unchanged are left alone; records of a synced wiki that
// no longer match a page are removed.
func (ix *Indexer) Sync(ctx context.Context, registry *pages.Registry) (*SyncReport, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	report := &SyncReport{}
	for _, w := range registry.Wikis() {
		if err := ix.syncWiki(ctx, w, report); err != nil {
			return report, err
		}
		report.Wikis++
	}
	ix.logger.WithContext(ctx).Info("wiki.storage.synced",
		"wikis", report.Wikis,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"removed", report.Removed,
	)
	return report, nil
}

func (ix *Indexer) syncWiki(ctx context.Context, w *pages.Wiki, report *SyncReport) error {
	existing, err := ix.repo.ListByWiki(ctx, w.ID)
	if err != nil {
		return fmt.Errorf("list pages of wiki %s: %w", w.Title, err)
	}
	stale := make(map[uuid.UUID]*PageRecord, len(existing))
	for _, record := range existing {
		stale[record.ID] = record
	}

	seen := map[string]bool{}
	for position, page := range w.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := page.Key()
		if seen[key] {
			report.Duplicates = append(report.Duplicates, key)
			ix.logger.Warn("wiki.storage.duplicate_page", "wiki", w.Title, "key", key)
			continue
		}
		seen[key] = true

		record := ix.record(w, page, position)
		if previous, ok := stale[record.ID]; ok {
			delete(stale, record.ID)
			if previous.Fingerprint == record.Fingerprint && previous.Position == record.Position {
				report.Unchanged++
				continue
			}
		}
		_, created, err := ix.repo.Save(ctx, record)
		if err != nil {
			return fmt.Errorf("save page %s: %w", record.Key, err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	for id, record := range stale {
		if err := ix.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete page %s: %w", record.Key, err)
		}
		report.Removed++
	}
	return nil
}

// RecordKey is the index key of a page: the slug of the pack name and the
// page key.
func RecordKey(packName, pageKey string) string {
	raw := packName + " " + pageKey
	if key, err := slug.Normalize(raw); err == nil && key != "" {
		return key
	}
	return strings.ToLower(strings.Join(strings.Fields(raw), "-"))
}

func (ix *Indexer) record(w *pages.Wiki, page *pages.Page, position int) *PageRecord {
	packName := w.Pack.DisplayName()
	record := &PageRecord{
		ID:               identity.PageUUID(w.ID, page.Key()),
		WikiID:           w.ID,
		WikiTitle:        w.Title,
		Pack:             packName,
		Key:              RecordKey(packName, page.Key()),
		PageID:           page.ID,
		Title:            page.Title,
		ShortDescription: page.ShortDescription,
		Icon:             page.Icon,
		Background:       page.Background,
		RequiresResearch: page.RequiresResearchRaw,
		AlwaysSpoiler:    page.IsAlwaysSpoiler,
		Generated:        page.IsGenerated(),
		Position:         position,
		IndexedAt:        ix.now(),
	}
	if page.Def != nil {
		record.EntityName = page.Def.Name
	}
	for _, origin := range page.Origins {
		record.Sources = append(record.Sources, Source{File: origin.File, Checksum: origin.Checksum})
	}
	walk(page.Elements, func(e *pages.Element) {
		record.ElementCount++
		switch e.Kind() {
		case pages.KindPageLink:
			record.PageLinks = append(record.PageLinks, e.PageLink)
		case pages.KindEntityLink:
			record.EntityLinks = append(record.EntityLinks, e.Def.Name)
		}
	})
	record.Fingerprint = fingerprint(record)
	return record
}

func walk(elements []*pages.Element, visit func(*pages.Element)) {
	for _, e := range elements {
		if e == nil {
			continue
		}
		visit(e)
		walk(e.Children(), visit)
	}
}

func fingerprint(record *PageRecord) string {
	h := blake3.New()
	fields := []string{
		record.WikiTitle,
		record.PageID,
		record.EntityName,
		record.Title,
		record.ShortDescription,
		record.Icon,
		record.Background,
		record.RequiresResearch,
		fmt.Sprint(record.AlwaysSpoiler, record.ElementCount),
		strings.Join(record.PageLinks, ","),
		strings.Join(record.EntityLinks, ","),
	}
	for _, source := range record.Sources {
		fields = append(fields, source.File, source.Checksum)
	}
	for _, field := range fields {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
