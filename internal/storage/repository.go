package storage

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewPageRecordRepository creates a repository for page records keyed by
// their slug.
func NewPageRecordRepository(db *bun.DB) repository.Repository[*PageRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageRecord]{
		NewRecord:          func() *PageRecord { return &PageRecord{} },
		GetID:              func(record *PageRecord) uuid.UUID { return record.ID },
		SetID:              func(record *PageRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "key" },
		GetIdentifierValue: func(record *PageRecord) string { return record.Key },
	})
}
