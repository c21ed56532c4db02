package custom

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// Dispatcher splits custom block tokens and invokes the resolved handler.
type Dispatcher struct {
	registry    *Registry
	definitions catalog.Lookup
	logger      interfaces.Logger
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger interfaces.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDefinitions exposes an entity lookup to handlers through Args.
func WithDefinitions(lookup catalog.Lookup) DispatcherOption {
	return func(d *Dispatcher) {
		d.definitions = lookup
	}
}

// NewDispatcher returns a dispatcher over registry.
func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	d := &Dispatcher{
		registry: registry,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// SplitToken separates "TypePath:Argument" at the first colon.
func SplitToken(token string) (typePath, input string, hasInput bool) {
	typePath, input, hasInput = strings.Cut(token, ":")
	return strings.TrimSpace(typePath), input, hasInput
}

// Dispatch resolves and invokes the handler named by token. A handler that
// errors or panics yields no elements; nil elements are dropped.
func (d *Dispatcher) Dispatch(w *pages.Wiki, page *pages.Page, token string) ([]*pages.Element, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}

	typePath, input, hasInput := SplitToken(token)
	handler, err := d.registry.Resolve(typePath)
	if err != nil {
		return nil, err
	}

	elements, err := d.invoke(handler, Args{
		Page:        page,
		Wiki:        w,
		Input:       input,
		HasInput:    hasInput,
		Definitions: d.definitions,
	})
	if err != nil {
		d.logger.Error("wiki.custom.handler_failed", "type_path", typePath, "error", err)
		return nil, &InvocationError{TypePath: typePath, Err: err}
	}

	out := make([]*pages.Element, 0, len(elements))
	for _, el := range elements {
		if el != nil {
			out = append(out, el)
		}
	}
	return out, nil
}

func (d *Dispatcher) invoke(handler Handler, args Args) (elements []*pages.Element, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			elements = nil
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return handler.invoke(args)
}
