package loader

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/markup"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

func file(text string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(text)}
}

func testPack(t *testing.T) (*catalog.Pack, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New()
	for _, def := range []*catalog.Definition{
		{Name: "Gun_Laser", Label: "laser gun", WeaponTags: []string{"Laser"}},
		{Name: "Gun_Plasma", Label: "plasma gun", WeaponTags: []string{"Plasma"}},
		{Name: "Steel", Label: "steel"},
		{Name: "Blueprint_Wall", IsBlueprint: true},
	} {
		if err := cat.Add(def); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	return &catalog.Pack{Name: "Example", Source: cat}, cat
}

func generatedWiki(t *testing.T, pack *catalog.Pack) *pages.Wiki {
	t.Helper()
	w := pages.NewWiki("Example", pack)
	for _, def := range pack.Definitions() {
		if catalog.DefaultFilter(def) {
			w.AddPage(&pages.Page{Title: def.LabelCap(), Def: def})
		}
	}
	return w
}

func TestClassify(t *testing.T) {
	cases := []struct {
		file string
		kind FileKind
		want string
		err  error
	}{
		{"Wiki/English/Intro.txt", FileStandalone, "", nil},
		{"Wiki/English/Guns/Thing_Gun_Laser.txt", FileOverlay, "Gun_Laser", nil},
		{"All_Example.Filters.IsGun.txt", FilePredicate, "Example.Filters:IsGun", nil},
		{"All_NoMethod.txt", FileStandalone, "", ErrPredicatePath},
	}
	for _, tc := range cases {
		c, err := Classify(tc.file)
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected error %v, got %v", tc.file, tc.err, err)
		}
		if err != nil {
			continue
		}
		if c.Kind != tc.kind {
			t.Fatalf("%s: expected %s, got %s", tc.file, tc.kind, c.Kind)
		}
		got := c.Target
		if c.Kind == FilePredicate {
			got = c.PredicateKey
		}
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.file, tc.want, got)
		}
	}
}

func TestDiscoverSortsByBaseNameDescending(t *testing.T) {
	fsys := fstest.MapFS{
		"Wiki/English/a.txt":         file(""),
		"Wiki/English/sub/B.txt":     file(""),
		"Wiki/English/C.TXT":         file(""),
		"Wiki/English/notes.md":      file(""),
		"Wiki/English/deep/x/d.txt":  file(""),
		"Wiki/English/Exclude.txt":   file(""),
		"Wiki/English/sub/c_2.txt":   file(""),
		"Wiki/English/zz/readme.doc": file(""),
	}
	files, err := discover(fsys, "Wiki/English")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{
		"Wiki/English/Exclude.txt",
		"Wiki/English/deep/x/d.txt",
		"Wiki/English/sub/c_2.txt",
		"Wiki/English/C.TXT",
		"Wiki/English/sub/B.txt",
		"Wiki/English/a.txt",
	}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("got %v, want %v", files, want)
		}
	}
}

func TestLoadAllOrdersStandalonePagesAheadOfGenerated(t *testing.T) {
	pack, _ := testPack(t)
	w := generatedWiki(t, pack)
	generated := len(w.Pages)

	fsys := fstest.MapFS{
		"Wiki/English/B.txt": file("ID:b\nTitle:B\nENDTAGS\n#b#"),
		"Wiki/English/A.txt": file("ID:a\nTitle:A\nENDTAGS\n#a#"),
	}
	report, err := New(fsys).LoadAll(context.Background(), w, "Wiki")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.Language != "English" || report.PagesAdded != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(w.Pages) != generated+2 {
		t.Fatalf("expected %d pages, got %d", generated+2, len(w.Pages))
	}
	if w.Pages[0].ID != "a" || w.Pages[1].ID != "b" || w.Pages[2].Def == nil {
		t.Fatalf("expected a, b, then generated pages; got %q %q", w.Pages[0].ID, w.Pages[1].ID)
	}
	if report.Files[0].Path != "Wiki/English/B.txt" || report.Files[0].Checksum == "" {
		t.Fatalf("expected B processed first with a checksum, got %+v", report.Files[0])
	}
}

func TestLoadAllOverlayWithoutHeader(t *testing.T) {
	pack, _ := testPack(t)
	w := generatedWiki(t, pack)
	laser := w.FindPageByEntityID("Gun_Laser")
	before := len(laser.Elements)
	pagesBefore := len(w.Pages)

	fsys := fstest.MapFS{
		"Wiki/English/Thing_Gun_Laser.txt": file("#Burns through armour.#"),
		"Wiki/English/Thing_Gun_Ghost.txt": file("#Nobody reads this.#"),
	}
	report, err := New(fsys).LoadAll(context.Background(), w, "Wiki")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(laser.Elements) != before+1 || laser.Elements[before].Text != "Burns through armour." {
		t.Fatalf("expected overlay body appended, got %+v", laser.Elements)
	}
	if len(w.Pages) != pagesBefore {
		t.Fatalf("overlays must not add pages")
	}
	missing := report.Diagnostics.OfKind(markup.KindOverlayTargetMissing)
	if len(missing) != 1 || missing[0].File != "Wiki/English/Thing_Gun_Ghost.txt" {
		t.Fatalf("expected overlay target missing for Gun_Ghost, got %v", report.Diagnostics)
	}
	if report.OverlaysApplied != 1 {
		t.Fatalf("expected one overlay, got %d", report.OverlaysApplied)
	}
}

func TestLoadAllSkipsBrokenFiles(t *testing.T) {
	pack, _ := testPack(t)
	w := pages.NewWiki("Example", pack)
	fsys := fstest.MapFS{
		"Wiki/English/NoHeader.txt": file("#lost#"),
		"Wiki/English/Good.txt":     file("ID:good\nENDTAGS\n#kept#"),
	}
	report, err := New(fsys).LoadAll(context.Background(), w, "Wiki")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(w.Pages) != 1 || w.Pages[0].ID != "good" {
		t.Fatalf("expected only the good page, got %+v", w.Pages)
	}
	if !report.Diagnostics.HasKind(markup.KindMissingHeader) || !report.Diagnostics.HasKind(markup.KindParseFailure) {
		t.Fatalf("expected missing header and parse failure diagnostics, got %v", report.Diagnostics)
	}
}

func TestLoadAllPredicateFiles(t *testing.T) {
	pack, _ := testPack(t)
	w := generatedWiki(t, pack)

	predicates := NewPredicateRegistry()
	if err := predicates.Register("Example.Filters:IsGun", func(def *catalog.Definition) bool {
		if def.Name == "Steel" {
			panic("steel is not a weapon")
		}
		return len(def.WeaponTags) > 0
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := predicates.Register("Example.Filters:Wrong", func(string) bool { return true }); !errors.Is(err, ErrPredicateSignature) {
		t.Fatalf("expected signature error, got %v", err)
	}

	fsys := fstest.MapFS{
		"Wiki/English/All_Example.Filters.IsGun.txt":  file("#A ranged weapon.#"),
		"Wiki/English/All_Example.Filters.Wrong.txt":  file("#never#"),
		"Wiki/English/All_Example.Filters.Absent.txt": file("#never#"),
		"Wiki/English/All_Broken.txt":                 file("#never#"),
	}
	report, err := New(fsys, WithPredicates(predicates)).LoadAll(context.Background(), w, "Wiki")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, name := range []string{"Gun_Laser", "Gun_Plasma"} {
		page := w.FindPageByEntityID(name)
		if len(page.Elements) != 1 || page.Elements[0].Text != "A ranged weapon." {
			t.Fatalf("%s: expected predicate overlay, got %+v", name, page.Elements)
		}
	}
	if steel := w.FindPageByEntityID("Steel"); len(steel.Elements) != 0 {
		t.Fatalf("expected steel untouched")
	}
	if got := len(report.Diagnostics.OfKind(markup.KindPredicateInvalid)); got != 3 {
		t.Fatalf("expected 3 invalid predicate diagnostics, got %d: %v", got, report.Diagnostics)
	}
	if !report.Diagnostics.HasKind(markup.KindPredicateFailed) {
		t.Fatalf("expected the panicking predicate to be reported")
	}
	if report.OverlaysApplied != 2 {
		t.Fatalf("expected 2 overlays, got %d", report.OverlaysApplied)
	}
}

func TestLanguageFallbacks(t *testing.T) {
	cases := []struct {
		name      string
		fsys      fstest.MapFS
		languages interfaces.StaticLanguages
		wantLang  string
		wantPages int
		warnings  int
	}{
		{
			name:      "active",
			fsys:      fstest.MapFS{"Wiki/German/P.txt": file("ID:p\nENDTAGS\n"), "Wiki/English/Q.txt": file("ID:q\nENDTAGS\n")},
			languages: interfaces.StaticLanguages{Active: "German", Default: "English"},
			wantLang:  "German",
			wantPages: 1,
		},
		{
			name:      "default",
			fsys:      fstest.MapFS{"Wiki/English/Q.txt": file("ID:q\nENDTAGS\n")},
			languages: interfaces.StaticLanguages{Active: "German", Default: "English"},
			wantLang:  "English",
			wantPages: 1,
			warnings:  2,
		},
		{
			name:      "first found",
			fsys:      fstest.MapFS{"Wiki/Spanish/S.txt": file("ID:s\nENDTAGS\n"), "Wiki/French/F.txt": file("ID:f\nENDTAGS\n")},
			languages: interfaces.StaticLanguages{Active: "German", Default: "English"},
			wantLang:  "French",
			wantPages: 1,
			warnings:  2,
		},
		{
			name:      "none",
			fsys:      fstest.MapFS{"Wiki/R.txt": file("ID:r\nENDTAGS\n"), "Wiki/Exclude.txt": file("Steel\n")},
			languages: interfaces.StaticLanguages{Active: "English", Default: "English"},
			wantLang:  "",
			wantPages: 0,
			warnings:  2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := pages.NewWiki("Example", nil)
			report, err := New(tc.fsys, WithLanguages(tc.languages)).LoadAll(context.Background(), w, "Wiki")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if report.Language != tc.wantLang {
				t.Fatalf("expected language %q, got %q", tc.wantLang, report.Language)
			}
			if len(w.Pages) != tc.wantPages {
				t.Fatalf("expected %d pages, got %d", tc.wantPages, len(w.Pages))
			}
			if got := len(report.Diagnostics.OfKind(markup.KindLanguageFallback)); got != tc.warnings {
				t.Fatalf("expected %d fallback warnings, got %d", tc.warnings, got)
			}
		})
	}
}

func TestLoadAllWithoutLanguageFolderLoadsNothing(t *testing.T) {
	fsys := fstest.MapFS{"Wiki/R.txt": file("ID:r\nENDTAGS\n#x#")}
	w := pages.NewWiki("Example", nil)

	report, err := New(fsys, WithLanguages(interfaces.StaticLanguages{Active: "English", Default: "English"})).
		LoadAll(context.Background(), w, "Wiki")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(w.Pages) != 0 || len(report.Files) != 0 || report.PagesAdded != 0 {
		t.Fatalf("expected nothing loaded from the wiki root, got %d pages %d files", len(w.Pages), len(report.Files))
	}
	if report.Dir != "" || !report.Diagnostics.HasKind(markup.KindLanguageFallback) {
		t.Fatalf("expected a fallback warning and no language dir, got %+v", report)
	}
}

func TestLoadAllMissingDirectory(t *testing.T) {
	w := pages.NewWiki("Example", nil)
	report, err := New(fstest.MapFS{}).LoadAll(context.Background(), w, "Wiki")
	if !errors.Is(err, ErrDirectoryMissing) {
		t.Fatalf("expected ErrDirectoryMissing, got %v", err)
	}
	if !report.Diagnostics.HasKind(markup.KindDirectoryMissing) {
		t.Fatalf("expected directory missing diagnostic")
	}
	if _, err := New(fstest.MapFS{}).LoadAll(context.Background(), nil, "Wiki"); !errors.Is(err, ErrNilWiki) {
		t.Fatalf("expected ErrNilWiki, got %v", err)
	}
}

func TestReadExcludeList(t *testing.T) {
	fsys := fstest.MapFS{
		"Wiki/Exclude.txt": file("// generated pages we do not want\nSteel\n\n  Gun_Plasma  \n//Gun_Laser\n"),
	}
	names, err := ReadExcludeList(fsys, "Wiki/Exclude.txt")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(names) != 2 || names[0] != "Steel" || names[1] != "Gun_Plasma" {
		t.Fatalf("unexpected names %v", names)
	}
	names, err = ReadExcludeList(fsys, "Other/Exclude.txt")
	if err != nil || names != nil {
		t.Fatalf("expected missing file to yield nothing, got %v %v", names, err)
	}
}
