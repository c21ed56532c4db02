package pages

import (
	"errors"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

var (
	// ErrNilWiki is returned when registering a nil wiki.
	ErrNilWiki = errors.New("pages: wiki is nil")
	// ErrWikiRegistered is returned when the same wiki is registered twice.
	ErrWikiRegistered = errors.New("pages: wiki already registered")
)

// Registry is the ordered list of loaded wikis. It is append-only and is not
// safe for concurrent mutation.
type Registry struct {
	wikis []*Wiki
}

var _ PageFinder = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a wiki after every previously registered one.
func (r *Registry) Add(w *Wiki) error {
	if w == nil {
		return ErrNilWiki
	}
	for _, existing := range r.wikis {
		if existing == w {
			return ErrWikiRegistered
		}
	}
	r.wikis = append(r.wikis, w)
	return nil
}

// Wikis returns the registered wikis in registration order.
func (r *Registry) Wikis() []*Wiki {
	if r == nil {
		return nil
	}
	return append([]*Wiki(nil), r.wikis...)
}

// GlobalFindPageByEntityID searches every wiki for a page generated from the
// definition named name.
func (r *Registry) GlobalFindPageByEntityID(name string) (*Wiki, *Page) {
	return r.find(func(w *Wiki) *Page { return w.FindPageByEntityID(name) })
}

// GlobalFindPageByDef searches every wiki for a page generated from def.
func (r *Registry) GlobalFindPageByDef(def *catalog.Definition) (*Wiki, *Page) {
	return r.find(func(w *Wiki) *Page { return w.FindPageByDef(def) })
}

// GlobalFindPageByID searches every wiki for an authored page.
func (r *Registry) GlobalFindPageByID(pageID string) (*Wiki, *Page) {
	return r.find(func(w *Wiki) *Page { return w.FindPageByID(pageID) })
}

func (r *Registry) find(match func(*Wiki) *Page) (*Wiki, *Page) {
	if r == nil {
		return nil, nil
	}
	for _, w := range r.wikis {
		if page := match(w); page != nil {
			return w, page
		}
	}
	return nil, nil
}

// Context carries the state shared by lookups and spoiler checks.
type Context struct {
	Registry      *Registry
	NoSpoilerMode bool
	Research      catalog.ResearchLookup
	Logger        interfaces.Logger
}

// NewContext returns a context over registry with no-spoiler mode on.
func NewContext(registry *Registry, research catalog.ResearchLookup, logger interfaces.Logger) *Context {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Context{
		Registry:      registry,
		NoSpoilerMode: true,
		Research:      research,
		Logger:        logger,
	}
}

func (c *Context) logger() interfaces.Logger {
	if c == nil || c.Logger == nil {
		return logging.NoOp()
	}
	return c.Logger
}
