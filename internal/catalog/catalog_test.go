package catalog

import "testing"

func TestDefaultFilter(t *testing.T) {
	target := &Definition{Name: "Wall"}
	cases := []struct {
		name string
		def  *Definition
		want bool
	}{
		{"nil", nil, false},
		{"plain item", &Definition{Name: "Steel", Category: CategoryItem}, true},
		{"blueprint", &Definition{Name: "Blueprint_Wall", IsBlueprint: true}, false},
		{"projectile flag", &Definition{Name: "Bullet", IsProjectile: true}, false},
		{"projectile category", &Definition{Name: "Bolt", Category: CategoryProjectile}, false},
		{"frame", &Definition{Name: "Frame_Wall", BuildTarget: target}, false},
		{"turret gun", &Definition{Name: "Gun_Turret", WeaponTags: []string{TurretGunTag}}, false},
		{"mote", &Definition{Name: "Mote_Smoke", IsMote: true}, false},
		{"ethereal", &Definition{Name: "Fire", Category: CategoryEthereal}, false},
		{"filth", &Definition{Name: "Filth_Dirt", Category: CategoryFilth}, false},
		{"building", &Definition{Name: "Bench", Category: CategoryBuilding}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultFilter(tc.def); got != tc.want {
				t.Fatalf("DefaultFilter() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCatalogLookupsChain(t *testing.T) {
	first := New()
	second := New()
	if err := first.Add(&Definition{Name: "Steel", Label: "first"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := second.Add(&Definition{Name: "Steel", Label: "second"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := second.Add(&Definition{Name: "Gold"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	lookup := Lookups{first, nil, second}
	if def, ok := lookup.Definition("Steel"); !ok || def.Label != "first" {
		t.Fatalf("expected first catalog to win, got %+v", def)
	}
	if _, ok := lookup.Definition("Gold"); !ok {
		t.Fatalf("expected Gold from the second catalog")
	}
	if _, ok := lookup.Definition("Silver"); ok {
		t.Fatalf("did not expect Silver")
	}
}

func TestDefinitionLabelCapAndOutputCount(t *testing.T) {
	def := &Definition{Name: "Gun_Laser", Label: "laser gun"}
	if def.LabelCap() != "Laser gun" {
		t.Fatalf("unexpected label %q", def.LabelCap())
	}
	if (&Definition{Name: "Raw"}).LabelCap() != "Raw" {
		t.Fatalf("expected name fallback")
	}
	if def.OutputCount() != 1 {
		t.Fatalf("expected default output count 1")
	}
}

func TestPackDisplayName(t *testing.T) {
	var pack *Pack
	if pack.DisplayName() != "<no-name-pack>" {
		t.Fatalf("unexpected placeholder %q", pack.DisplayName())
	}
	if pack.Definitions() != nil {
		t.Fatalf("expected nil definitions from nil pack")
	}
	cat := New()
	_ = cat.Add(&Definition{Name: "Steel"})
	pack = &Pack{Name: "Example", Source: cat}
	if pack.DisplayName() != "Example" || len(pack.Definitions()) != 1 {
		t.Fatalf("unexpected pack state")
	}
}
