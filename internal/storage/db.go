package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// MemoryDSN is a shared in-memory sqlite database.
const MemoryDSN = "file::memory:?cache=shared"

// Open connects to the page index database. driver is "sqlite3" (default) or
// "postgres".
func Open(driver, dsn string) (*bun.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" || driver == "sqlite" {
		driver = DriverSQLite
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrDSNRequired
	}

	switch driver {
	case DriverSQLite:
		sqlDB, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres, "postgresql", "pg":
		sqlDB, err := sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// Migrate creates the page index tables when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*PageRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create table wiki_pages: %w", err)
	}
	if _, err := db.NewCreateIndex().
		Model((*PageRecord)(nil)).
		Index("wiki_pages_wiki_id_idx").
		Column("wiki_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create index wiki_pages_wiki_id_idx: %w", err)
	}
	return nil
}
