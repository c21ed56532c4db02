package wiki

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/custom"
	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/internal/loader"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/internal/render"
	"github.com/goliatone/go-wiki/internal/storage"
)

// Page exports the wiki page model.
type Page = pages.Page

// Wiki exports a pack's assembled wiki.
type Wiki = pages.Wiki

// Element exports the page element model.
type Element = pages.Element

// Registry exports the global wiki registry.
type Registry = pages.Registry

// RenderContext carries the registry and research state used for spoilers.
type RenderContext = pages.Context

// Definition exports the catalog definition consumed by generators and links.
type Definition = catalog.Definition

// HandlerRegistry exports the custom element handler registry.
type HandlerRegistry = custom.Registry

// HandlerArgs exports the arguments passed to custom element handlers.
type HandlerArgs = custom.Args

// PredicateRegistry exports the registry used by All_ predicate files.
type PredicateRegistry = loader.PredicateRegistry

// PackBuild exports the outcome of building one content pack.
type PackBuild = di.PackBuild

// SyncReport exports the page index sync counters.
type SyncReport = storage.SyncReport

var (
	ErrStorageDisabled = di.ErrStorageDisabled
	ErrPackNotFound    = di.ErrPackNotFound
	ErrPageNotFound    = errors.New("wiki: page not found")
)

// Module represents the top level wiki runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a wiki module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Handlers returns the custom element registry so hosts can add their own types.
func (m *Module) Handlers() *HandlerRegistry {
	return m.container.Handlers()
}

// Predicates returns the registry consulted by All_ overlay files.
func (m *Module) Predicates() *PredicateRegistry {
	return m.container.Predicates()
}

// Registry returns the wikis produced by the last build.
func (m *Module) Registry() *Registry {
	return m.container.Registry()
}

// Packs lists the content packs found under the content root.
func (m *Module) Packs() ([]string, error) {
	return m.container.Packs()
}

// Build assembles the named packs, or every pack when none are given.
func (m *Module) Build(ctx context.Context, packs ...string) ([]PackBuild, error) {
	return m.container.BuildAll(ctx, packs...)
}

// Index mirrors the built wikis into the page index.
func (m *Module) Index(ctx context.Context) (*SyncReport, error) {
	return m.container.Index(ctx)
}

// Page finds a built page by page ID or entity name.
func (m *Module) Page(key string) (*Wiki, *Page, error) {
	w, page := m.container.FindPage(key)
	if page == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPageNotFound, key)
	}
	return w, page, nil
}

// Markdown renders a page as Markdown.
func (m *Module) Markdown(key string) (string, error) {
	_, page, err := m.Page(key)
	if err != nil {
		return "", err
	}
	return render.NewMarkdown(m.container.Context()).Page(page), nil
}

// HTML renders a page as an HTML fragment.
func (m *Module) HTML(key string) ([]byte, error) {
	_, page, err := m.Page(key)
	if err != nil {
		return nil, err
	}
	return render.NewHTML(m.container.Context()).Page(page)
}

// Close releases the page index connection when the module opened it.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
