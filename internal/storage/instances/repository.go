package instances

import (
	"context"

	"library/internal/storage"
	"library/internal/types"
)

type Repository interface {
	Count(ctx context.Context, filter storage.Filter) (int64, error)

	// FindByBook lists the copies of one book, projected to imprint and
	// status unless other fields are requested. A blank book id does not
	// resolve: the result is nil, distinct from a known book with no copies,
	// which is an empty slice.
	FindByBook(ctx context.Context, bookId string, fields ...string) ([]*types.BookInstance, error)

	FindAllByStatus(ctx context.Context, status types.Status) ([]*types.BookInstance, error)

	// Save persists copies, applying the schema defaults: status falls back
	// to Maintenance, due_back to the time of the call.
	Save(ctx context.Context, instances ...*types.BookInstance) error
}
