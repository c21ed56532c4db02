package custom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/pages"
)

// Args is passed to a custom element handler.
type Args struct {
	// Page is the page being parsed; handlers may inspect it.
	Page *pages.Page
	// Wiki owns Page.
	Wiki *pages.Wiki
	// Input is the text after the first ':' of the token.
	Input string
	// HasInput distinguishes "TypePath:" from "TypePath".
	HasInput bool
	// Definitions resolves entity names for handlers that emit entity links.
	Definitions catalog.Lookup
}

// SingleFunc produces at most one element.
type SingleFunc func(Args) (*pages.Element, error)

// MultiFunc produces any number of elements.
type MultiFunc func(Args) ([]*pages.Element, error)

// Handler is a resolved, invocable custom element handler.
type Handler struct {
	TypePath string
	single   SingleFunc
	multi    MultiFunc
}

// IsMulti reports whether the handler returns a list.
func (h Handler) IsMulti() bool { return h.multi != nil }

func (h Handler) invoke(args Args) ([]*pages.Element, error) {
	if h.multi != nil {
		return h.multi(args)
	}
	el, err := h.single(args)
	if err != nil || el == nil {
		return nil, err
	}
	return []*pages.Element{el}, nil
}

// Fallback is consulted for type paths that were never registered. It mirrors
// a plugin lookup: it returns a handler value of any shape or false.
type Fallback func(typePath string) (any, bool)

type resolution struct {
	handler Handler
	err     error
}

// Registry maps type paths to handlers. Lookups are cached, misses included.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	cache    map[string]resolution
	fallback Fallback
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithFallback installs a resolver for unregistered type paths.
func WithFallback(fallback Fallback) RegistryOption {
	return func(r *Registry) {
		r.fallback = fallback
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handlers: map[string]Handler{},
		cache:    map[string]resolution{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register binds handler to typePath. handler must be a SingleFunc, a
// MultiFunc, or a func literal of either signature. Unsupported shapes are
// rejected and cached as a miss so later lookups fail fast.
func (r *Registry) Register(typePath string, handler any) error {
	typePath = strings.TrimSpace(typePath)
	if typePath == "" {
		return ErrInvalidTypePath
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[typePath]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, typePath)
	}

	h, err := adapt(typePath, handler)
	if err != nil {
		r.cache[typePath] = resolution{err: err}
		return err
	}
	r.handlers[typePath] = h
	delete(r.cache, typePath)
	return nil
}

// MustRegister is Register that panics; meant for package init wiring.
func (r *Registry) MustRegister(typePath string, handler any) {
	if err := r.Register(typePath, handler); err != nil {
		panic(err)
	}
}

// Resolve returns the handler for typePath.
func (r *Registry) Resolve(typePath string) (Handler, error) {
	typePath = strings.TrimSpace(typePath)

	r.mu.RLock()
	if h, ok := r.handlers[typePath]; ok {
		r.mu.RUnlock()
		return h, nil
	}
	if cached, ok := r.cache[typePath]; ok {
		r.mu.RUnlock()
		return cached.handler, cached.err
	}
	fallback := r.fallback
	r.mu.RUnlock()

	res := resolution{err: fmt.Errorf("%w: %s", ErrHandlerNotFound, typePath)}
	if fallback != nil {
		if value, ok := fallback(typePath); ok {
			h, err := adapt(typePath, value)
			res = resolution{handler: h, err: err}
		}
	}

	r.mu.Lock()
	r.cache[typePath] = res
	r.mu.Unlock()
	return res.handler, res.err
}

// TypePaths lists registered type paths in order.
func (r *Registry) TypePaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.handlers))
	for path := range r.handlers {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func adapt(typePath string, handler any) (Handler, error) {
	h := Handler{TypePath: typePath}
	switch fn := handler.(type) {
	case SingleFunc:
		h.single = fn
	case func(Args) (*pages.Element, error):
		h.single = fn
	case MultiFunc:
		h.multi = fn
	case func(Args) ([]*pages.Element, error):
		h.multi = fn
	default:
		return Handler{}, fmt.Errorf("%w: %s (%T)", ErrNoUsableHandler, typePath, handler)
	}
	if h.single == nil && h.multi == nil {
		return Handler{}, fmt.Errorf("%w: %s (nil func)", ErrNoUsableHandler, typePath)
	}
	return h, nil
}
