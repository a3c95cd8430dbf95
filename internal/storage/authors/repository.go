package authors

import (
	"context"

	"library/internal/storage"
	"library/internal/types"
)

type Repository interface {
	Count(ctx context.Context, filter storage.Filter) (int64, error)

	GetAll(ctx context.Context, sorts ...storage.Sort) ([]*types.Author, error)

	GetById(ctx context.Context, id string) (*types.Author, error)
	// GetByIds shall return map with NON-NULLS!
	GetByIds(ctx context.Context, ids ...string) (map[string]*types.Author, error)

	// GetIdByName returns the id of the first author matching the name pair,
	// or empty string when none does.
	GetIdByName(ctx context.Context, familyName, firstName string) (string, error)

	Save(ctx context.Context, authors ...*types.Author) error
}
