package instances

import (
	"context"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"library/internal/storage"
	"library/internal/types"
)

// columns maps the exposed projection names onto table columns.
var columns = map[string]string{
	"book":     "book_id",
	"imprint":  "imprint",
	"status":   "status",
	"due_back": "due_back",
}

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxInstance struct {
	Id      string    `db:"id"`
	BookId  string    `db:"book_id"`
	Imprint string    `db:"imprint"`
	Status  string    `db:"status"`
	DueBack time.Time `db:"due_back"`
}

func (i *pgxInstance) intoCommon() *types.BookInstance {
	return &types.BookInstance{
		Id:      i.Id,
		BookId:  i.BookId,
		Imprint: i.Imprint,
		Status:  types.Status(i.Status),
		DueBack: i.DueBack,
	}
}

func (p *pgxRepo) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	qb := p.g.From("book_instance").Select(goqu.COUNT(goqu.Star()))
	if len(filter) > 0 {
		qb = qb.Where(goqu.Ex(filter))
	}

	sql, params, err := qb.ToSQL()
	if err != nil {
		return 0, err
	}

	var count int64

	err = pgxscan.Get(ctx, p.pg, &count, sql, params...)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *pgxRepo) FindByBook(ctx context.Context, bookId string, fields ...string) ([]*types.BookInstance, error) {
	if bookId == "" {
		return nil, nil
	}

	if len(fields) == 0 {
		fields = []string{"imprint", "status"}
	}

	sel := []any{goqu.C("id")}
	for _, field := range fields {
		if col, ok := columns[field]; ok {
			sel = append(sel, goqu.C(col))
		}
	}

	sql, params, err := p.g.From("book_instance").
		Select(sel...).
		Where(goqu.C("book_id").Eq(bookId)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxInstance

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.BookInstance, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon())
	}

	return ret, nil
}

func (p *pgxRepo) FindAllByStatus(ctx context.Context, status types.Status) ([]*types.BookInstance, error) {
	sql, params, err := p.g.From("book_instance").
		Where(goqu.C("status").Eq(string(status))).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxInstance

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.BookInstance, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon())
	}

	return ret, nil
}

func (p *pgxRepo) Save(ctx context.Context, instances ...*types.BookInstance) error {
	if len(instances) == 0 {
		return nil
	}

	rows := make([]any, 0, len(instances))
	for _, instance := range instances {
		status := instance.Status
		if status == "" {
			status = types.StatusMaintenance
		}

		dueBack := instance.DueBack
		if dueBack.IsZero() {
			dueBack = time.Now()
		}

		rows = append(rows, pgxInstance{
			Id:      instance.Id,
			BookId:  instance.BookId,
			Imprint: instance.Imprint,
			Status:  string(status),
			DueBack: dueBack,
		})
	}

	sql, params, err := p.g.Insert("book_instance").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"book_id":  goqu.L("excluded.book_id"),
			"imprint":  goqu.L("excluded.imprint"),
			"status":   goqu.L("excluded.status"),
			"due_back": goqu.L("excluded.due_back"),
		})).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}
