package loader

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-wiki/internal/catalog"
)

// Predicate selects the generated pages an All_ file is merged into.
type Predicate func(def *catalog.Definition) bool

// PredicateRegistry maps "TypePath:Method" keys to predicates. Extension
// modules populate it at startup.
type PredicateRegistry struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
	invalid    map[string]error
}

// NewPredicateRegistry returns an empty registry.
func NewPredicateRegistry() *PredicateRegistry {
	return &PredicateRegistry{
		predicates: map[string]Predicate{},
		invalid:    map[string]error{},
	}
}

// Register binds fn to key. fn must be a Predicate or a
// func(*catalog.Definition) bool; any other value is remembered as invalid so
// the files naming it report a signature error instead of a missing one.
func (r *PredicateRegistry) Register(key string, fn any) error {
	key = strings.TrimSpace(key)
	if !strings.Contains(key, ":") {
		return fmt.Errorf("%w: key %q", ErrPredicatePath, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var predicate Predicate
	switch typed := fn.(type) {
	case Predicate:
		predicate = typed
	case func(*catalog.Definition) bool:
		predicate = typed
	}
	if predicate == nil {
		err := fmt.Errorf("%w: %s is %T", ErrPredicateSignature, key, fn)
		r.invalid[key] = err
		return err
	}
	delete(r.invalid, key)
	r.predicates[key] = predicate
	return nil
}

// Lookup returns the predicate registered under key.
func (r *PredicateRegistry) Lookup(key string) (Predicate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.predicates[key]; ok {
		return p, nil
	}
	if err, ok := r.invalid[key]; ok {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrPredicateNotFound, key)
}

// Keys lists registered predicate keys.
func (r *PredicateRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.predicates))
	for k := range r.predicates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
