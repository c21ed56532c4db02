package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/internal/storage"
	"github.com/goliatone/go-wiki/pkg/testsupport"
)

func testRegistry(t *testing.T) (*pages.Registry, *pages.Wiki) {
	t.Helper()
	laser := &catalog.Definition{Name: "Gun_Laser", Label: "laser gun"}
	pack := &catalog.Pack{Name: "Example"}

	w := pages.NewWiki("Example Wiki", pack)
	intro := &pages.Page{ID: "Intro", Title: "Welcome", Origins: []pages.Origin{{File: "Wiki/English/Intro.txt", Checksum: "abc"}}}
	intro.Append(pages.NewText("Hello"), pages.NewPageLink("Guide"), pages.NewSection("More", pages.NewEntityLink(laser, "")))
	w.AddPage(intro)
	w.AddPage(&pages.Page{Title: "Laser gun", Def: laser})
	w.AddPage(&pages.Page{ID: "Intro", Title: "Shadowed"})

	registry := pages.NewRegistry()
	if err := registry.Add(w); err != nil {
		t.Fatalf("add wiki: %v", err)
	}
	return registry, w
}

func TestIndexerSync(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewBunPageRepository(testsupport.NewMemoryDB(t))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	indexer := storage.NewIndexer(repo, storage.WithNow(func() time.Time { return now }))
	registry, w := testRegistry(t)

	report, err := indexer.Sync(ctx, registry)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if report.Wikis != 1 || report.Created != 2 || report.Updated != 0 {
		t.Fatalf("unexpected first report %+v", report)
	}
	if len(report.Duplicates) != 1 || report.Duplicates[0] != "Intro" {
		t.Fatalf("expected Intro duplicate, got %v", report.Duplicates)
	}

	intro, err := repo.GetByKey(ctx, storage.RecordKey("Example", "Intro"))
	if err != nil {
		t.Fatalf("get intro: %v", err)
	}
	if intro.Title != "Welcome" || intro.ElementCount != 4 || intro.Generated {
		t.Fatalf("unexpected intro record %+v", intro)
	}
	if len(intro.PageLinks) != 1 || intro.PageLinks[0] != "Guide" || len(intro.EntityLinks) != 1 || intro.EntityLinks[0] != "Gun_Laser" {
		t.Fatalf("unexpected links %v %v", intro.PageLinks, intro.EntityLinks)
	}
	if len(intro.Sources) != 1 || intro.Sources[0].Checksum != "abc" {
		t.Fatalf("unexpected sources %+v", intro.Sources)
	}

	report, err = indexer.Sync(ctx, registry)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if report.Unchanged != 2 || report.Created != 0 || report.Updated != 0 {
		t.Fatalf("expected unchanged records, got %+v", report)
	}

	w.Pages[1].Title = "Laser rifle"
	w.Pages = w.Pages[1:2]
	report, err = indexer.Sync(ctx, registry)
	if err != nil {
		t.Fatalf("third sync: %v", err)
	}
	if report.Updated != 1 || report.Removed != 1 || report.Unchanged != 0 {
		t.Fatalf("expected one update and one removal, got %+v", report)
	}

	records, err := repo.ListByWiki(ctx, w.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Title != "Laser rifle" || records[0].EntityName != "Gun_Laser" || records[0].Position != 0 {
		t.Fatalf("unexpected records %+v", records)
	}

	var notFound *storage.NotFoundError
	if _, err := repo.GetByKey(ctx, storage.RecordKey("Example", "Intro")); !errors.As(err, &notFound) {
		t.Fatalf("expected removed record to be missing, got %v", err)
	}
}

func TestSearchWithCache(t *testing.T) {
	ctx := context.Background()
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := storage.NewBunPageRepositoryWithCache(testsupport.NewMemoryDB(t), cacheSvc, repocache.NewDefaultKeySerializer())
	registry, _ := testRegistry(t)
	if _, err := storage.NewIndexer(repo).Sync(ctx, registry); err != nil {
		t.Fatalf("sync: %v", err)
	}

	for i := 0; i < 2; i++ {
		records, err := repo.Search(ctx, "LASER", 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(records) != 1 || records[0].EntityName != "Gun_Laser" {
			t.Fatalf("unexpected search result %+v", records)
		}
	}
}

func TestOpenValidation(t *testing.T) {
	if _, err := storage.Open("sqlite3", " "); !errors.Is(err, storage.ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
	if _, err := storage.Open("mysql", "x"); !errors.Is(err, storage.ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
	if _, err := storage.NewIndexer(nil).Sync(context.Background(), nil); !errors.Is(err, storage.ErrNilRegistry) {
		t.Fatalf("expected ErrNilRegistry, got %v", err)
	}
}

func TestRecordKey(t *testing.T) {
	a := storage.RecordKey("Example", "Intro")
	b := storage.RecordKey("Example", "Guide")
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty keys, got %q %q", a, b)
	}
	if storage.RecordKey("Example", "Intro") != a {
		t.Fatalf("expected stable keys")
	}
}
