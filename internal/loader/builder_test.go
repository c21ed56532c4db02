package loader

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/pages"
)

func TestBuilderBuildsAndRegistersWiki(t *testing.T) {
	pack, _ := testPack(t)
	registry := pages.NewRegistry()
	fsys := fstest.MapFS{
		"Wiki/Exclude.txt":                 file("Gun_Plasma\nUnobtainium\n// comment\nGhost\n"),
		"Wiki/English/Intro.txt":           file("ID:Intro\nTitle:Welcome\nENDTAGS\n#Hello# ~Guide~"),
		"Wiki/English/Guide.txt":           file("ID:Guide\nTitle:Guide\nENDTAGS\n@Gun_Laser@"),
		"Wiki/English/Thing_Gun_Laser.txt": file("Description:Hot.\nENDTAGS\n#Pew.#"),
	}

	w, report, err := NewBuilder(fsys, WithRegistry(registry)).Build(context.Background(), "Example Wiki", pack)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Generated != 2 || report.Excluded != 1 {
		t.Fatalf("expected 2 generated and 1 excluded, got %+v", report)
	}
	if len(report.UnknownExcludes) != 2 || report.UnknownExcludes[0] != "Unobtainium" || report.UnknownExcludes[1] != "Ghost" {
		t.Fatalf("expected unknown excludes in file order, got %v", report.UnknownExcludes)
	}
	if w.FindPageByEntityID("Gun_Plasma") != nil || w.FindPageByEntityID("Blueprint_Wall") != nil {
		t.Fatalf("excluded and filtered definitions must not get pages")
	}
	if w.Pages[0].ID != "Guide" || w.Pages[1].ID != "Intro" {
		t.Fatalf("expected standalone pages first in ascending order, got %q %q", w.Pages[0].ID, w.Pages[1].ID)
	}
	laser := w.FindPageByEntityID("Gun_Laser")
	if laser.ShortDescription != "Hot." || laser.Elements[len(laser.Elements)-1].Text != "Pew." {
		t.Fatalf("expected overlay merged into generated page, got %+v", laser)
	}

	if _, page := registry.GlobalFindPageByID("Guide"); page == nil {
		t.Fatalf("expected wiki registered")
	}
	intro := w.FindPageByID("Intro")
	link := intro.Elements[1]
	if _, target, ok := link.ResolveLink(registry); !ok || target.ID != "Guide" {
		t.Fatalf("expected page link to resolve through the registry")
	}
}

func TestBuilderWithoutWikiFolder(t *testing.T) {
	pack, _ := testPack(t)
	w, report, err := NewBuilder(fstest.MapFS{}).Build(context.Background(), "", pack)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Generated != 3 || len(w.Pages) != 3 {
		t.Fatalf("expected generated pages only, got %d", len(w.Pages))
	}
	if w.Title != pages.DefaultTitle {
		t.Fatalf("expected default title, got %q", w.Title)
	}
}

func TestBuilderRejectsNilPack(t *testing.T) {
	if _, _, err := NewBuilder(fstest.MapFS{}).Build(context.Background(), "x", nil); !errors.Is(err, ErrNilPack) {
		t.Fatalf("expected ErrNilPack, got %v", err)
	}
}

func TestBuilderCustomFilter(t *testing.T) {
	pack, _ := testPack(t)
	b := NewBuilder(fstest.MapFS{}, WithFilter(func(def *catalog.Definition) bool {
		return def.Name == "Steel"
	}))
	w, _, err := b.Build(context.Background(), "x", pack)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(w.Pages) != 1 || w.Pages[0].Def.Name != "Steel" {
		t.Fatalf("expected only steel, got %d pages", len(w.Pages))
	}
}
