package testsupport

import (
	"context"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-wiki/internal/storage"
)

// NewMemoryDB opens a migrated in-memory page index private to the test.
func NewMemoryDB(t testing.TB) *bun.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := storage.Open(storage.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open page index: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate page index: %v", err)
	}
	return db
}
