package catalog

// Filter decides whether a page should be generated for a definition.
type Filter func(def *Definition) bool

// DefaultFilter skips blueprints, projectiles, build frames, turret guns,
// motes and the ethereal/filth categories.
func DefaultFilter(def *Definition) bool {
	if def == nil {
		return false
	}
	if def.IsBlueprint || def.IsProjectile || def.BuildTarget != nil {
		return false
	}
	if def.HasWeaponTag(TurretGunTag) {
		return false
	}
	if def.IsMote || def.Category == CategoryMote || def.Category == CategoryProjectile {
		return false
	}
	switch def.Category {
	case CategoryEthereal, CategoryFilth:
		return false
	}
	return true
}
