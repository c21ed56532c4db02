package catalog

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Validate checks a fully linked definition.
func (d *Definition) Validate() error {
	if d == nil {
		return validation.NewError("catalog.definition_nil", "definition is nil")
	}
	return validation.ValidateStruct(d,
		validation.Field(&d.Name, validation.Required, validation.Match(namePattern)),
		validation.Field(&d.Category, validation.In(
			CategoryItem, CategoryBuilding, CategoryPawn, CategoryPlant,
			CategoryProjectile, CategoryMote, CategoryEthereal, CategoryFilth,
		)),
		validation.Field(&d.Cost, validation.Each(validation.By(validateCost))),
		validation.Field(&d.RecipeMaker, validation.By(validateRecipeMaker)),
	)
}

// Validate checks a research project.
func (r *Research) Validate() error {
	if r == nil {
		return validation.NewError("catalog.research_nil", "research is nil")
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Match(namePattern)),
	)
}

func validateCost(value any) error {
	cost, ok := value.(Cost)
	if !ok {
		return validation.NewError("catalog.cost_type", "unexpected cost entry")
	}
	if cost.Def == nil {
		return validation.NewError("catalog.cost_def", "cost entry has no definition")
	}
	if cost.Count < 1 {
		return validation.NewError("catalog.cost_count", "cost count must be at least 1")
	}
	return nil
}

func validateRecipeMaker(value any) error {
	maker, _ := value.(*RecipeMaker)
	if maker == nil {
		return nil
	}
	if maker.ProductCount < 0 {
		return validation.NewError("catalog.product_count", "product count must not be negative")
	}
	for _, user := range maker.RecipeUsers {
		if user == nil {
			return validation.NewError("catalog.recipe_user", "recipe user is nil")
		}
	}
	return nil
}
