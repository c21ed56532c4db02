package wiki_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-wiki"
	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/testsupport"
)

func newModule(t *testing.T) *wiki.Module {
	t.Helper()
	fsys := testsupport.MapFS(map[string]string{
		"Base/Defs/Items/Steel.md":   "---\nname: Steel\nlabel: steel\ncategory: item\n---\n",
		"Base/Wiki/English/Home.txt": "ID:Home\nTitle:Home\nENDTAGS\n#Welcome# |Banner:Hello| @Steel@",
	})
	cfg := wiki.DefaultConfig()
	cfg.Title = "Handbook"
	module, err := wiki.New(cfg, di.WithFS(fsys))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleBuildAndRender(t *testing.T) {
	module := newModule(t)
	err := module.Handlers().Register("Banner", func(args wiki.HandlerArgs) (*wiki.Element, error) {
		return pages.NewMediumText(strings.ToUpper(args.Input)), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	builds, err := module.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(builds) != 1 || builds[0].Wiki.Title != "Handbook" {
		t.Fatalf("unexpected builds %+v", builds)
	}

	md, err := module.Markdown("Home")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(md, "**HELLO**") {
		t.Fatalf("expected custom element output, got %q", md)
	}

	if _, page, err := module.Page("Steel"); err != nil || page.Def == nil {
		t.Fatalf("expected generated page for Steel, got %v", err)
	}

	html, err := module.HTML("Home")
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(string(html), "<strong>Welcome</strong>") {
		t.Fatalf("unexpected html %s", html)
	}
}

func TestModuleMissingPage(t *testing.T) {
	module := newModule(t)
	if _, err := module.Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := module.Markdown("Nowhere"); !errors.Is(err, wiki.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
	if _, err := module.Index(context.Background()); !errors.Is(err, wiki.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
}

func TestConfigValidateCacheRequiresStorage(t *testing.T) {
	cfg := wiki.DefaultConfig()
	cfg.Features.Cache = true
	if err := cfg.Validate(); !errors.Is(err, wiki.ErrCacheRequiresStorage) {
		t.Fatalf("expected ErrCacheRequiresStorage, got %v", err)
	}
}
