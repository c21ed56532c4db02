package pages

import (
	"strings"

	"github.com/goliatone/go-wiki/internal/catalog"
)

const (
	// InvalidID is assigned to new markup pages that declare no ID.
	InvalidID = "INVALID_ID_ERROR"
	// MissingTitle is assigned to new markup pages that declare no title.
	MissingTitle = "<No title specified>"
)

// Origin records a markup file that contributed to a page.
type Origin struct {
	File     string
	Checksum string
}

// Page is one wiki entry, either generated from a definition or authored in
// markup. Overlays mutate pages in place.
type Page struct {
	ID               string
	Title            string
	ShortDescription string
	Icon             string
	Background       string

	// RequiresResearchRaw names a research project gating the page. It is
	// resolved on first spoiler check.
	RequiresResearchRaw string
	IsAlwaysSpoiler     bool

	Def      *catalog.Definition
	Elements []*Element
	Origins  []Origin

	research researchCell
}

type researchCell struct {
	raw     string
	project *catalog.Research
}

// Append adds elements in order, skipping nil entries.
func (p *Page) Append(elements ...*Element) {
	for _, el := range elements {
		if el != nil {
			p.Elements = append(p.Elements, el)
		}
	}
}

// IsGenerated reports whether the page was built from a definition.
func (p *Page) IsGenerated() bool {
	return p != nil && p.Def != nil
}

// Key is the identifier used by the page index: the page ID for authored
// pages, the entity name for generated ones.
func (p *Page) Key() string {
	if p == nil {
		return ""
	}
	if p.Def != nil {
		return p.Def.Name
	}
	return p.ID
}

// IsResearchFinished reports whether the research gating the page's entity is
// complete. Pages without an entity have no such gate.
func (p *Page) IsResearchFinished() bool {
	if p == nil || p.Def == nil {
		return true
	}
	return p.Def.IsResearchFinished()
}

// IsSpoiler reports whether the page should be hidden under no-spoiler mode.
func (p *Page) IsSpoiler(ctx *Context) bool {
	if p == nil || ctx == nil || !ctx.NoSpoilerMode {
		return false
	}
	if p.IsAlwaysSpoiler {
		return true
	}
	if project := p.requiredResearch(ctx); project != nil && !project.IsFinished() {
		return true
	}
	return !p.IsResearchFinished()
}

// requiredResearch resolves RequiresResearchRaw once. An unknown project is
// reported and the override cleared so it is not looked up again.
func (p *Page) requiredResearch(ctx *Context) *catalog.Research {
	raw := strings.TrimSpace(p.RequiresResearchRaw)
	if raw == "" {
		return nil
	}
	if p.research.raw == raw && p.research.project != nil {
		return p.research.project
	}

	var project *catalog.Research
	if ctx.Research != nil {
		project, _ = ctx.Research.Research(raw)
	}
	if project == nil {
		ctx.logger().Error("wiki.page.research_missing",
			"page", p.ID,
			"title", p.Title,
			"research", raw,
		)
		p.RequiresResearchRaw = ""
		p.research = researchCell{}
		return nil
	}
	p.research = researchCell{raw: raw, project: project}
	return project
}
