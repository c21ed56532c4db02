package di_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/internal/loader"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/internal/runtimeconfig"
	"github.com/goliatone/go-wiki/internal/storage"
)

func contentFS() fstest.MapFS {
	file := func(text string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(text)} }
	return fstest.MapFS{
		"Core/Defs/Research/Lasers.md": file("---\nname: Lasers\n---\n"),
		"Core/Defs/Items/Steel.md":     file("---\nname: Steel\nlabel: steel\ncategory: item\n---\nA strong metal.\n"),
		"Core/Defs/Items/LaserGun.md": file("---\nname: Gun_Laser\nlabel: laser gun\ncategory: item\n" +
			"weapon_tags: [Laser]\ncost:\n  - def: Steel\n    count: 50\nrecipe:\n  research_prerequisite: Lasers\n---\n"),
		"Core/Wiki/English/Lore.txt":                      file("ID:Lore\nTitle:Lore\nENDTAGS\n#Long ago.#"),
		"Core/Wiki/English/Intro.txt":                     file("ID:Intro\nTitle:Welcome\nENDTAGS\n#Hello# |Wiki.PageIndex|"),
		"Core/Wiki/English/All_Core.Weapons.IsWeapon.txt": file("#Handle with care.#"),
		"Addon/Defs/Items/Plasteel.md":                    file("---\nname: Plasteel\nlabel: plasteel\ncategory: item\n---\n"),
		"Addon/Wiki/English/Guide.txt":                    file("ID:Guide\nTitle:Guide\nENDTAGS\n@Gun_Laser@ ~Intro~"),
		"Addon/Wiki/Exclude.txt":                          file("Plasteel\n"),
		".git/HEAD":                                       file("ref"),
	}
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = "file:di_container_test?mode=memory&cache=shared"
	return cfg
}

func newContainer(t *testing.T, cfg runtimeconfig.Config) *di.Container {
	t.Helper()
	predicates := loader.NewPredicateRegistry()
	if err := predicates.Register("Core.Weapons:IsWeapon", func(def *catalog.Definition) bool {
		return len(def.WeaponTags) > 0
	}); err != nil {
		t.Fatalf("register predicate: %v", err)
	}
	c, err := di.NewContainer(cfg, di.WithFS(contentFS()), di.WithPredicates(predicates))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestContainerBuildsEveryPack(t *testing.T) {
	c := newContainer(t, testConfig())

	packs, err := c.Packs()
	if err != nil {
		t.Fatalf("packs: %v", err)
	}
	if len(packs) != 2 || packs[0] != "Addon" || packs[1] != "Core" {
		t.Fatalf("unexpected packs %v", packs)
	}

	builds, err := c.BuildAll(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(builds) != 2 || len(c.Registry().Wikis()) != 2 {
		t.Fatalf("expected two wikis, got %d", len(builds))
	}

	addon := builds[0]
	if addon.Report.Excluded != 1 || addon.Report.Generated != 0 {
		t.Fatalf("expected the addon definition to be excluded, got %+v", addon.Report)
	}
	guide := addon.Wiki.FindPageByID("Guide")
	if guide == nil || guide.Elements[0].Def == nil || guide.Elements[0].Def.Name != "Gun_Laser" {
		t.Fatalf("expected cross-pack entity link, got %+v", guide)
	}
	if _, target, ok := guide.Elements[1].ResolveLink(c.Registry()); !ok || target.ID != "Intro" {
		t.Fatalf("expected link to the core intro page")
	}

	_, intro := c.FindPage("Intro")
	if intro == nil || len(intro.Elements) != 2 || intro.Elements[1].PageLink != "Lore" {
		t.Fatalf("expected the page index to list the other core page, got %+v", intro)
	}

	_, laser := c.FindPage("Gun_Laser")
	if laser == nil || laser.Elements[len(laser.Elements)-1].Text != "Handle with care." {
		t.Fatalf("expected the predicate overlay on the laser page")
	}
	if !laser.IsSpoiler(c.Context()) {
		t.Fatalf("expected unfinished research to hide the laser page")
	}
}

func TestContainerBuildUnknownPack(t *testing.T) {
	c := newContainer(t, testConfig())
	if _, err := c.BuildAll(context.Background(), "Missing"); !errors.Is(err, di.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

func TestContainerWithoutCustomElements(t *testing.T) {
	cfg := testConfig()
	cfg.Features.CustomElements = false
	c := newContainer(t, cfg)
	if _, err := c.BuildAll(context.Background(), "Core"); err != nil {
		t.Fatalf("build: %v", err)
	}
	_, intro := c.FindPage("Intro")
	for _, e := range intro.Elements {
		if e.Kind() == pages.KindPageLink {
			t.Fatalf("custom blocks must stay inert when disabled")
		}
	}
}

func TestContainerIndex(t *testing.T) {
	c := newContainer(t, testConfig())
	if _, err := c.Index(context.Background()); !errors.Is(err, di.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}

	cfg := testConfig()
	cfg.Features.Storage = true
	cfg.Features.Cache = true
	c = newContainer(t, cfg)
	if _, err := c.BuildAll(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}
	report, err := c.Index(context.Background())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if report.Wikis != 2 || report.Created == 0 {
		t.Fatalf("unexpected index report %+v", report)
	}
	record, err := c.PageRepository().GetByKey(context.Background(), storage.RecordKey("Addon", "Guide"))
	if err != nil || record.Title != "Guide" {
		t.Fatalf("expected indexed guide, got %+v %v", record, err)
	}
}

func TestNewContainerValidatesConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ContentRoot = ""
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrContentRootRequired) {
		t.Fatalf("expected config validation error, got %v", err)
	}
}
