package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := WikiUUID("Example Mod")
	second := WikiUUID("  Example Mod ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil wiki id")
	}
	if first != second {
		t.Fatalf("expected trimmed keys to match: %s != %s", first, second)
	}
	if WikiUUID("Other Mod") == first {
		t.Fatalf("expected distinct packs to get distinct ids")
	}
}

func TestPageUUIDScopedByWiki(t *testing.T) {
	a := WikiUUID("A")
	b := WikiUUID("B")
	if PageUUID(a, "Gun_Laser") == PageUUID(b, "Gun_Laser") {
		t.Fatalf("expected page ids to differ across wikis")
	}
	if PageUUID(a, "Gun_Laser") != PageUUID(a, "Gun_Laser") {
		t.Fatalf("expected page ids to be deterministic")
	}
}

func TestUUIDBlankKey(t *testing.T) {
	if UUID("   ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
}
