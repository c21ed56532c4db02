package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRepository persists page records.
type PageRepository interface {
	Save(ctx context.Context, record *PageRecord) (*PageRecord, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PageRecord, error)
	GetByKey(ctx context.Context, key string) (*PageRecord, error)
	ListByWiki(ctx context.Context, wikiID uuid.UUID) ([]*PageRecord, error)
	Search(ctx context.Context, term string, limit int) ([]*PageRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BunPageRepository implements PageRepository with optional caching.
type BunPageRepository struct {
	repo repository.Repository[*PageRecord]
}

// NewBunPageRepository creates a page repository without caching.
func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache creates a page repository with caching support.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunPageRepository{repo: base}
}

// Save creates the record or updates the row sharing its ID. The boolean
// reports whether a new row was created.
func (r *BunPageRepository) Save(ctx context.Context, record *PageRecord) (*PageRecord, bool, error) {
	_, err := r.repo.GetByID(ctx, record.ID.String())
	switch {
	case err == nil:
		updated, err := r.repo.Update(ctx, record)
		if err != nil {
			return nil, false, mapRepositoryError(err, "page", record.Key)
		}
		return updated, false, nil
	case errors.IsCategory(err, repository.CategoryDatabaseNotFound):
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, false, mapRepositoryError(err, "page", record.Key)
		}
		return created, true, nil
	default:
		return nil, false, mapRepositoryError(err, "page", record.Key)
	}
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*PageRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

func (r *BunPageRepository) GetByKey(ctx context.Context, key string) (*PageRecord, error) {
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, "page", key)
	}
	return record, nil
}

// ListByWiki returns the records of one wiki in page order.
func (r *BunPageRepository) ListByWiki(ctx context.Context, wikiID uuid.UUID) ([]*PageRecord, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.wiki_id = ?", wikiID).Order("position ASC")
	}))
	return records, err
}

// Search matches term against titles and entity names, case-insensitively.
func (r *BunPageRepository) Search(ctx context.Context, term string, limit int) ([]*PageRecord, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + term + "%"
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("LOWER(?TableAlias.title) LIKE LOWER(?)", pattern).
					WhereOr("LOWER(?TableAlias.entity_name) LIKE LOWER(?)", pattern).
					WhereOr("LOWER(?TableAlias.page_id) LIKE LOWER(?)", pattern)
			}).Order("title ASC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	return records, err
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &PageRecord{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
