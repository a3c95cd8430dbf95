package genres

import (
	"context"

	"library/internal/storage"
)

type Repository interface {
	Count(ctx context.Context, filter storage.Filter) (int64, error)

	// GetByIds shall return map with NON-NULLS!
	GetByIds(ctx context.Context, ids ...uint16) (map[uint16]string, error)

	// GetIdByName returns the id of the first genre with the given name,
	// or zero when none exists.
	GetIdByName(ctx context.Context, name string) (uint16, error)

	Insert(ctx context.Context, names ...string) (map[string]uint16, error)
}
