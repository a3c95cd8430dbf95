package books

import (
	"context"

	"library/internal/storage"
	"library/internal/types"
)

type Repository interface {
	Count(ctx context.Context, filter storage.Filter) (int64, error)

	// GetById resolves a book with its genre links. Malformed and unknown ids
	// are indistinguishable: both come back as nil without error.
	GetById(ctx context.Context, id string) (*types.Book, error)
	// GetByIds shall return map with NON-NULLS!
	GetByIds(ctx context.Context, ids ...string) (map[string]*types.Book, error)

	// GetAll projects the requested fields (id is always included). Known
	// fields are "title", "author", "summary" and "isbn"; no fields means all.
	GetAll(ctx context.Context, fields []string, sorts ...storage.Sort) ([]*types.Book, error)

	Save(ctx context.Context, books ...*types.Book) error
	LinkBookAndGenres(ctx context.Context, bookId string, genreIds ...uint16) error
}
