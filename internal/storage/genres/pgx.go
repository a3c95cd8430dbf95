package genres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library/internal/storage"
)

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxGenre struct {
	Id   uint16 `db:"id"`
	Name string `db:"name"`
}

func (p *pgxRepo) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	qb := p.g.From("genre").Select(goqu.COUNT(goqu.Star()))
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

func (p *pgxRepo) GetByIds(ctx context.Context, ids ...uint16) (map[uint16]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, params, err := p.g.From("genre").
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxGenre

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[uint16]string, len(rows))
	for _, row := range rows {
		ret[row.Id] = row.Name
	}

	return ret, nil
}

func (p *pgxRepo) GetIdByName(ctx context.Context, name string) (uint16, error) {
	sql, params, err := p.g.From("genre").
		Select(goqu.C("id")).
		Where(goqu.C("name").Eq(name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, err
	}

	var id uint16

	err = pgxscan.Get(ctx, p.pg, &id, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return 0, err
	}

	return id, nil
}

func (p *pgxRepo) Insert(ctx context.Context, names ...string) (map[string]uint16, error) {
	if len(names) == 0 {
		return nil, nil
	}

	vals := make([][]any, 0, len(names))
	for _, name := range names {
		vals = append(vals, []any{name})
	}

	sql, params, err := p.g.Insert("genre").
		Cols("name").
		Vals(vals...).
		OnConflict(goqu.DoNothing()).
		Returning("id", "name").
		ToSQL()
	if err != nil {
		return nil, err
	}

	rows := make([]pgxGenre, 0, len(names))

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]uint16, len(names))
	for _, row := range rows {
		ret[row.Name] = row.Id
	}

	var missingNames []string
	for _, name := range names {
		if _, ok := ret[name]; !ok {
			missingNames = append(missingNames, name)
		}
	}

	for _, name := range missingNames {
		id, err := p.GetIdByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			ret[name] = id
		}
	}

	return ret, nil
}
