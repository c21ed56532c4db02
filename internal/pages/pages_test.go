package pages

import (
	"testing"

	"github.com/goliatone/go-wiki/internal/catalog"
)

type countingFinder struct {
	calls int
	wiki  *Wiki
	page  *Page
}

func (f *countingFinder) GlobalFindPageByID(string) (*Wiki, *Page) {
	f.calls++
	return f.wiki, f.page
}

func TestResolveLinkCachesTarget(t *testing.T) {
	w := NewWiki("Example", &catalog.Pack{Name: "Example"})
	target := &Page{ID: "Intro", Title: "Introduction"}
	finder := &countingFinder{wiki: w, page: target}

	link := NewPageLink("Intro")
	for i := 0; i < 3; i++ {
		gotWiki, gotPage, ok := link.ResolveLink(finder)
		if !ok || gotPage != target || gotWiki != w {
			t.Fatalf("resolution %d: expected target page, got %v %v %v", i, gotWiki, gotPage, ok)
		}
	}
	if finder.calls != 1 {
		t.Fatalf("expected a single lookup, got %d", finder.calls)
	}
	if link.IsLinkBroken() {
		t.Fatalf("did not expect a broken link")
	}
}

func TestResolveLinkMarksBrokenOnce(t *testing.T) {
	finder := &countingFinder{}
	link := NewPageLink("Nowhere")
	if link.IsLinkBroken() {
		t.Fatalf("unresolved link must not be broken yet")
	}
	for i := 0; i < 2; i++ {
		if _, _, ok := link.ResolveLink(finder); ok {
			t.Fatalf("expected resolution to fail")
		}
	}
	if !link.IsLinkBroken() {
		t.Fatalf("expected broken link")
	}
	// A page registered later does not revive the link.
	finder.page = &Page{ID: "Nowhere"}
	if _, _, ok := link.ResolveLink(finder); ok {
		t.Fatalf("expected broken link to stay broken")
	}
	if finder.calls != 1 {
		t.Fatalf("expected a single lookup, got %d", finder.calls)
	}
}

func TestElementKind(t *testing.T) {
	def := &catalog.Definition{Name: "Steel"}
	cases := map[Kind]*Element{
		KindText:       NewText("hello"),
		KindImage:      NewImage("Things/Steel", nil),
		KindEntityLink: NewEntityLink(def, "steel"),
		KindPageLink:   NewPageLink("Intro"),
		KindSection:    NewSection("Cost", NewText("x")),
	}
	for want, el := range cases {
		if got := el.Kind(); got != want {
			t.Fatalf("Kind() = %s, want %s", got, want)
		}
	}
	if NewImage("a", nil).ImageSize.IsExplicit() {
		t.Fatalf("expected natural image size by default")
	}
}

func TestRegistryGlobalLookupsHonourRegistrationOrder(t *testing.T) {
	steel := &catalog.Definition{Name: "Steel"}
	first := NewWiki("First", &catalog.Pack{Name: "First"})
	second := NewWiki("Second", &catalog.Pack{Name: "Second"})

	firstSteel := &Page{Title: "Steel (first)", Def: steel}
	first.AddPage(firstSteel)
	second.AddPage(&Page{Title: "Steel (second)", Def: steel})
	second.AddPage(&Page{ID: "Guide", Title: "Guide"})

	registry := NewRegistry()
	if err := registry.Add(first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := registry.Add(second); err != nil {
		t.Fatalf("add second: %v", err)
	}
	if err := registry.Add(first); err != ErrWikiRegistered {
		t.Fatalf("expected ErrWikiRegistered, got %v", err)
	}

	w, p := registry.GlobalFindPageByEntityID("Steel")
	if w != first || p != firstSteel {
		t.Fatalf("expected first wiki to win")
	}
	if w, p = registry.GlobalFindPageByDef(steel); w != first || p != firstSteel {
		t.Fatalf("expected first wiki to win for def lookup")
	}
	if w, p = registry.GlobalFindPageByID("Guide"); w != second || p == nil {
		t.Fatalf("expected guide in second wiki")
	}
	if w, p = registry.GlobalFindPageByID(""); w != nil || p != nil {
		t.Fatalf("expected empty id to miss")
	}
}

func TestWikiInsertPageFront(t *testing.T) {
	w := NewWiki("", nil)
	if w.Title != DefaultTitle {
		t.Fatalf("expected default title, got %q", w.Title)
	}
	w.AddPage(&Page{ID: "b"})
	w.InsertPageFront(&Page{ID: "a"})
	w.AddPage(nil)
	if len(w.Pages) != 2 || w.Pages[0].ID != "a" {
		t.Fatalf("unexpected page order: %+v", w.Pages)
	}
}

func TestIsSpoiler(t *testing.T) {
	lasers := &catalog.Research{Name: "Lasers"}
	research := catalog.New()
	_ = research.AddResearch(lasers)

	gun := &catalog.Definition{
		Name:        "Gun_Laser",
		RecipeMaker: &catalog.RecipeMaker{ResearchPrerequisite: lasers},
	}

	ctx := NewContext(nil, research, nil)

	generated := &Page{Title: "Laser gun", Def: gun}
	if !generated.IsSpoiler(ctx) {
		t.Fatalf("expected unfinished research to make the page a spoiler")
	}

	ctx.NoSpoilerMode = false
	if generated.IsSpoiler(ctx) {
		t.Fatalf("spoilers are never hidden when no-spoiler mode is off")
	}
	ctx.NoSpoilerMode = true

	always := &Page{ID: "Secret", IsAlwaysSpoiler: true}
	if !always.IsSpoiler(ctx) {
		t.Fatalf("expected always-spoiler page")
	}

	gated := &Page{ID: "Guide", RequiresResearchRaw: "Lasers"}
	if !gated.IsSpoiler(ctx) {
		t.Fatalf("expected research override to gate the page")
	}
	lasers.Finished = true
	if gated.IsSpoiler(ctx) || generated.IsSpoiler(ctx) {
		t.Fatalf("expected finished research to reveal pages")
	}

	unknown := &Page{ID: "Odd", RequiresResearchRaw: "Teleportation"}
	if unknown.IsSpoiler(ctx) {
		t.Fatalf("unknown research must not gate the page")
	}
	if unknown.RequiresResearchRaw != "" {
		t.Fatalf("expected unknown research override to be cleared")
	}
}

func TestPageKey(t *testing.T) {
	if (&Page{ID: "Intro"}).Key() != "Intro" {
		t.Fatalf("expected ID key for authored page")
	}
	if (&Page{ID: "x", Def: &catalog.Definition{Name: "Steel"}}).Key() != "Steel" {
		t.Fatalf("expected entity key for generated page")
	}
}
