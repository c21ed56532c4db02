package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// ErrNilDefinition is returned when asked to generate a page for nil.
var ErrNilDefinition = errors.New("generator: definition is nil")

const bullet = " • "

// Labels are the section titles written into generated pages.
type Labels struct {
	Cost      string
	Creates   string
	CraftedAt string
	Research  string
	// OutputCount is a format string taking the product count.
	OutputCount string
	WeaponTag   string
}

// DefaultLabels returns the English section titles.
func DefaultLabels() Labels {
	return Labels{
		Cost:        "Cost",
		Creates:     "Creates",
		CraftedAt:   "Crafted At",
		Research:    "Research to unlock",
		OutputCount: "Output count: %d",
		WeaponTag:   "WeaponTag: %s",
	}
}

// Option customises a Generator.
type Option func(*Generator)

// WithLabels overrides the section titles. Empty fields keep the default.
func WithLabels(labels Labels) Option {
	return func(g *Generator) {
		defaults := DefaultLabels()
		g.labels = Labels{
			Cost:        firstNonEmpty(labels.Cost, defaults.Cost),
			Creates:     firstNonEmpty(labels.Creates, defaults.Creates),
			CraftedAt:   firstNonEmpty(labels.CraftedAt, defaults.CraftedAt),
			Research:    firstNonEmpty(labels.Research, defaults.Research),
			OutputCount: firstNonEmpty(labels.OutputCount, defaults.OutputCount),
			WeaponTag:   firstNonEmpty(labels.WeaponTag, defaults.WeaponTag),
		}
	}
}

// WithDebug appends the definition's weapon tags to every page.
func WithDebug(enabled bool) Option {
	return func(g *Generator) {
		g.debug = enabled
	}
}

// WithLogger sets the logger used to report failed sections.
func WithLogger(logger interfaces.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator builds pages from entity definitions.
type Generator struct {
	labels Labels
	debug  bool
	logger interfaces.Logger
}

// New returns a generator with the default labels.
func New(opts ...Option) *Generator {
	g := &Generator{
		labels: DefaultLabels(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// FromDefinition builds the page for def. Sections that come out empty are
// left out; a section that fails is logged and skipped.
func (g *Generator) FromDefinition(def *catalog.Definition) (*pages.Page, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}

	page := &pages.Page{
		Title:            def.LabelCap(),
		ShortDescription: def.Description,
		Icon:             def.Icon,
		Def:              def,
	}

	page.Append(g.section(def, "cost", g.costSection))
	page.Append(g.section(def, "creates", g.createsSection))
	page.Append(g.section(def, "crafted_at", g.craftedAtSection))
	page.Append(g.section(def, "research", g.researchSection))

	if g.debug {
		for _, tag := range def.WeaponTags {
			page.Append(pages.NewText(fmt.Sprintf(g.labels.WeaponTag, tag)))
		}
	}
	return page, nil
}

func (g *Generator) section(def *catalog.Definition, name string, build func(*catalog.Definition) *pages.Element) (el *pages.Element) {
	defer func() {
		if recovered := recover(); recovered != nil {
			el = nil
			logging.WithEntity(g.logger, def.Name).Error("wiki.generator.section_failed",
				"section", name,
				"label", def.LabelCap(),
				"error", fmt.Sprint(recovered),
			)
		}
	}()
	return build(def)
}

func (g *Generator) costSection(def *catalog.Definition) *pages.Element {
	if len(def.Cost) == 0 {
		return nil
	}
	section := pages.NewSection(g.labels.Cost)
	for _, cost := range def.Cost {
		label := ""
		if cost.Count > 1 {
			label = fmt.Sprintf("x%d", cost.Count)
		}
		section.Section.Elements = append(section.Section.Elements, pages.NewEntityLink(cost.Def, label))
	}
	section.Section.Elements = append(section.Section.Elements,
		pages.NewText(fmt.Sprintf(g.labels.OutputCount, def.OutputCount())))
	return section
}

func (g *Generator) createsSection(def *catalog.Definition) *pages.Element {
	section := pages.NewSection(g.labels.Creates)
	for _, recipe := range def.Recipes {
		recipe = strings.TrimSpace(recipe)
		if recipe == "" {
			continue
		}
		section.Section.Elements = append(section.Section.Elements, pages.NewText(bullet+catalog.CapitalizeFirst(recipe)))
	}
	return nonEmpty(section)
}

func (g *Generator) craftedAtSection(def *catalog.Definition) *pages.Element {
	if def.RecipeMaker == nil {
		return nil
	}
	section := pages.NewSection(g.labels.CraftedAt)
	for _, user := range def.RecipeMaker.RecipeUsers {
		if user == nil {
			continue
		}
		section.Section.Elements = append(section.Section.Elements, pages.NewEntityLink(user, ""))
	}
	return nonEmpty(section)
}

// researchSection lists direct prerequisites (buildings) followed by recipe
// prerequisites (craftable items).
func (g *Generator) researchSection(def *catalog.Definition) *pages.Element {
	section := pages.NewSection(g.labels.Research)
	add := func(r *catalog.Research) {
		if r != nil {
			section.Section.Elements = append(section.Section.Elements, pages.NewText(bullet+r.LabelCap()))
		}
	}
	for _, r := range def.ResearchPrerequisites {
		add(r)
	}
	if maker := def.RecipeMaker; maker != nil {
		for _, r := range maker.ResearchPrerequisites {
			add(r)
		}
		add(maker.ResearchPrerequisite)
	}
	return nonEmpty(section)
}

func nonEmpty(section *pages.Element) *pages.Element {
	if len(section.Children()) == 0 {
		return nil
	}
	return section
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
