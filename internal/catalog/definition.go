package catalog

import (
	"slices"
	"unicode"
	"unicode/utf8"
)

// Category classifies an entity definition. The default page filter uses it to
// skip non-physical placeholders.
type Category string

const (
	CategoryItem       Category = "item"
	CategoryBuilding   Category = "building"
	CategoryPawn       Category = "pawn"
	CategoryPlant      Category = "plant"
	CategoryProjectile Category = "projectile"
	CategoryMote       Category = "mote"
	CategoryEthereal   Category = "ethereal"
	CategoryFilth      Category = "filth"
)

// TurretGunTag marks weapons that only exist mounted on turrets.
const TurretGunTag = "TurretGun"

// Definition is the structured description of one content entity. Pages are
// generated from definitions and markup files reference them by Name.
type Definition struct {
	Name        string
	Label       string
	Description string
	Icon        string
	Category    Category

	Cost                  []Cost
	RecipeMaker           *RecipeMaker
	ResearchPrerequisites []*Research
	Recipes               []string
	WeaponTags            []string

	IsBlueprint  bool
	IsProjectile bool
	IsMote       bool
	// BuildTarget is set on frames/blueprints that stand in for another entity.
	BuildTarget *Definition
}

// Cost is one component entry of a definition's cost list.
type Cost struct {
	Def   *Definition
	Count int
}

// RecipeMaker describes how a definition is produced.
type RecipeMaker struct {
	ProductCount          int
	RecipeUsers           []*Definition
	ResearchPrerequisite  *Research
	ResearchPrerequisites []*Research
}

// LabelCap returns the label with the first rune upper-cased, falling back to
// the definition name.
func (d *Definition) LabelCap() string {
	if d == nil {
		return ""
	}
	if d.Label == "" {
		return d.Name
	}
	return CapitalizeFirst(d.Label)
}

// OutputCount reports how many units one production run yields.
func (d *Definition) OutputCount() int {
	if d == nil || d.RecipeMaker == nil || d.RecipeMaker.ProductCount <= 0 {
		return 1
	}
	return d.RecipeMaker.ProductCount
}

// HasWeaponTag reports whether tag is among the definition's weapon tags.
func (d *Definition) HasWeaponTag(tag string) bool {
	return d != nil && slices.Contains(d.WeaponTags, tag)
}

// IsResearchFinished reports whether every research gate on the definition is
// complete. Direct prerequisites (buildings) take precedence over recipe
// prerequisites (craftable items).
func (d *Definition) IsResearchFinished() bool {
	if d == nil {
		return true
	}
	if d.ResearchPrerequisites != nil {
		return allFinished(d.ResearchPrerequisites)
	}
	if d.RecipeMaker != nil {
		if r := d.RecipeMaker.ResearchPrerequisite; r != nil && !r.IsFinished() {
			return false
		}
		return allFinished(d.RecipeMaker.ResearchPrerequisites)
	}
	return true
}

// Research is a research project gating entities or pages.
type Research struct {
	Name     string
	Label    string
	Finished bool
}

// IsFinished reports whether the project is complete. A nil project counts as
// finished.
func (r *Research) IsFinished() bool {
	return r == nil || r.Finished
}

// LabelCap mirrors Definition.LabelCap for research projects.
func (r *Research) LabelCap() string {
	if r == nil {
		return ""
	}
	if r.Label == "" {
		return r.Name
	}
	return CapitalizeFirst(r.Label)
}

func allFinished(list []*Research) bool {
	for _, r := range list {
		if !r.IsFinished() {
			return false
		}
	}
	return true
}

// CapitalizeFirst upper-cases the first rune of s.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
