package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateDefinition is returned when two definitions share a name.
	ErrDuplicateDefinition = errors.New("catalog: duplicate definition")
	// ErrDuplicateResearch is returned when two research projects share a name.
	ErrDuplicateResearch = errors.New("catalog: duplicate research")
	// ErrInvalidName is returned for blank definition or research names.
	ErrInvalidName = errors.New("catalog: name is required")
)

// Source enumerates the definitions owned by a content pack.
type Source interface {
	Definitions() []*Definition
}

// Lookup resolves definitions by name, the way markup entity links do.
type Lookup interface {
	Definition(name string) (*Definition, bool)
}

// ResearchLookup resolves research projects by name.
type ResearchLookup interface {
	Research(name string) (*Research, bool)
}

// Catalog is an in-memory, insertion ordered set of definitions and research
// projects. It implements Source, Lookup and ResearchLookup.
type Catalog struct {
	defs     []*Definition
	byName   map[string]*Definition
	research []*Research
	byRes    map[string]*Research
}

var (
	_ Source         = (*Catalog)(nil)
	_ Lookup         = (*Catalog)(nil)
	_ ResearchLookup = (*Catalog)(nil)
)

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		byName: map[string]*Definition{},
		byRes:  map[string]*Research{},
	}
}

// Add registers a definition.
func (c *Catalog) Add(def *Definition) error {
	if def == nil || strings.TrimSpace(def.Name) == "" {
		return ErrInvalidName
	}
	if _, exists := c.byName[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, def.Name)
	}
	c.byName[def.Name] = def
	c.defs = append(c.defs, def)
	return nil
}

// AddResearch registers a research project.
func (c *Catalog) AddResearch(r *Research) error {
	if r == nil || strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if _, exists := c.byRes[r.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResearch, r.Name)
	}
	c.byRes[r.Name] = r
	c.research = append(c.research, r)
	return nil
}

// Definitions returns the definitions in insertion order.
func (c *Catalog) Definitions() []*Definition {
	return append([]*Definition(nil), c.defs...)
}

// Definition returns the definition registered under name.
func (c *Catalog) Definition(name string) (*Definition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// Research returns the research project registered under name.
func (c *Catalog) Research(name string) (*Research, bool) {
	r, ok := c.byRes[name]
	return r, ok
}

// ResearchProjects returns the research projects in insertion order.
func (c *Catalog) ResearchProjects() []*Research {
	return append([]*Research(nil), c.research...)
}

// Lookups chains several lookups; the first hit wins. It lets markup from one
// content pack link to entities defined by another.
type Lookups []Lookup

func (l Lookups) Definition(name string) (*Definition, bool) {
	for _, lookup := range l {
		if lookup == nil {
			continue
		}
		if def, ok := lookup.Definition(name); ok {
			return def, true
		}
	}
	return nil, false
}

// ResearchLookups chains several research lookups.
type ResearchLookups []ResearchLookup

func (l ResearchLookups) Research(name string) (*Research, bool) {
	for _, lookup := range l {
		if lookup == nil {
			continue
		}
		if r, ok := lookup.Research(name); ok {
			return r, true
		}
	}
	return nil, false
}

// Pack is a content pack: the unit that owns one wiki.
type Pack struct {
	Name    string
	RootDir string
	Source  Source
}

// Definitions returns the pack's definitions, or nil when it has no source.
func (p *Pack) Definitions() []*Definition {
	if p == nil || p.Source == nil {
		return nil
	}
	return p.Source.Definitions()
}

// DisplayName returns the pack name or a placeholder.
func (p *Pack) DisplayName() string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return "<no-name-pack>"
	}
	return p.Name
}
