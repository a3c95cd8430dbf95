package authors

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library/internal/storage"
	"library/internal/types"
)

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxAuthor struct {
	Id         string     `db:"id"`
	FirstName  string     `db:"first_name"`
	FamilyName string     `db:"family_name"`
	Born       *time.Time `db:"date_of_birth"`
	Died       *time.Time `db:"date_of_death"`
}

func (a *pgxAuthor) intoCommon() *types.Author {
	return &types.Author{
		Id:         a.Id,
		FirstName:  a.FirstName,
		FamilyName: a.FamilyName,
		Born:       a.Born,
		Died:       a.Died,
	}
}

func (p *pgxRepo) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	qb := p.g.From("author").Select(goqu.COUNT(goqu.Star()))
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

func (p *pgxRepo) GetAll(ctx context.Context, sorts ...storage.Sort) ([]*types.Author, error) {
	qb := p.g.From("author")
	for _, s := range sorts {
		if s.Desc {
			qb = qb.OrderAppend(goqu.C(s.Field).Desc())
		} else {
			qb = qb.OrderAppend(goqu.C(s.Field).Asc())
		}
	}

	sql, params, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxAuthor

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Author, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon())
	}

	return ret, nil
}

func (p *pgxRepo) GetById(ctx context.Context, id string) (*types.Author, error) {
	sql, params, err := p.g.From("author").
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxAuthor

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.intoCommon(), nil
}

func (p *pgxRepo) GetByIds(ctx context.Context, ids ...string) (map[string]*types.Author, error) {
	if len(ids) == 0 {
		return make(map[string]*types.Author), nil
	}

	sql, params, err := p.g.From("author").
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxAuthor

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]*types.Author, len(rows))
	for _, row := range rows {
		ret[row.Id] = row.intoCommon()
	}

	return ret, nil
}

func (p *pgxRepo) GetIdByName(ctx context.Context, familyName, firstName string) (string, error) {
	sql, params, err := p.g.From("author").
		Select(goqu.C("id")).
		Where(goqu.C("family_name").Eq(familyName), goqu.C("first_name").Eq(firstName)).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", err
	}

	var id string

	err = pgxscan.Get(ctx, p.pg, &id, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return "", err
	}

	return id, nil
}

func (p *pgxRepo) Save(ctx context.Context, authors ...*types.Author) error {
	if len(authors) == 0 {
		return nil
	}

	rows := make([]any, 0, len(authors))
	for _, author := range authors {
		rows = append(rows, pgxAuthor{
			Id:         author.Id,
			FirstName:  author.FirstName,
			FamilyName: author.FamilyName,
			Born:       author.Born,
			Died:       author.Died,
		})
	}

	sql, params, err := p.g.Insert("author").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"first_name":    goqu.L("excluded.first_name"),
			"family_name":   goqu.L("excluded.family_name"),
			"date_of_birth": goqu.L("excluded.date_of_birth"),
			"date_of_death": goqu.L("excluded.date_of_death"),
		})).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}
