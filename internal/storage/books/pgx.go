package books

import (
	"context"
	"errors"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library/internal/storage"
	"library/internal/types"
)

var subGenres = goqu.Select(goqu.L("array_agg(genre_id)")).
	From("book_genre").
	Where(goqu.C("book_id").Eq(goqu.C("id").Table("book")))

// columns maps the exposed projection names onto table columns.
var columns = map[string]string{
	"title":   "title",
	"summary": "summary",
	"isbn":    "isbn",
	"author":  "author_id",
}

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxBook struct {
	Id       string `db:"id"`
	Title    string `db:"title"`
	Summary  string `db:"summary"`
	ISBN     string `db:"isbn"`
	AuthorId string `db:"author_id"`
}

type pgxBookFull struct {
	Base     pgxBook  `db:""` // follow
	GenreIds []uint16 `db:"genres"`
}

func (b *pgxBook) intoCommon(genreIds []uint16) *types.Book {
	return &types.Book{
		Id:       b.Id,
		Title:    b.Title,
		Summary:  b.Summary,
		ISBN:     b.ISBN,
		AuthorId: b.AuthorId,
		GenreIds: genreIds,
	}
}

func (p *pgxRepo) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	qb := p.g.From("book").Select(goqu.COUNT(goqu.Star()))
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

func (p *pgxRepo) GetById(ctx context.Context, id string) (*types.Book, error) {
	sql, params, err := p.g.From("book").
		Select(goqu.Star(), subGenres.As("genres")).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row pgxBookFull

	err = pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		return nil, err
	}

	return row.Base.intoCommon(row.GenreIds), nil
}

func (p *pgxRepo) GetByIds(ctx context.Context, ids ...string) (map[string]*types.Book, error) {
	if len(ids) == 0 {
		return make(map[string]*types.Book), nil
	}

	sql, params, err := p.g.From("book").
		Select(goqu.Star(), subGenres.As("genres")).
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxBookFull

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]*types.Book, len(rows))
	for _, row := range rows {
		ret[row.Base.Id] = row.Base.intoCommon(row.GenreIds)
	}

	return ret, nil
}

func (p *pgxRepo) GetAll(ctx context.Context, fields []string, sorts ...storage.Sort) ([]*types.Book, error) {
	sel := []any{goqu.C("id")}
	if len(fields) == 0 {
		for _, col := range []string{"title", "summary", "isbn", "author_id"} {
			sel = append(sel, goqu.C(col))
		}
	} else {
		for _, field := range fields {
			if col, ok := columns[field]; ok {
				sel = append(sel, goqu.C(col))
			}
		}
	}

	qb := p.g.From("book").Select(sel...)
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

	var rows []pgxBook

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon(nil))
	}

	return ret, nil
}

func (p *pgxRepo) Save(ctx context.Context, books ...*types.Book) error {
	if len(books) == 0 {
		return nil
	}

	rows := make([]any, 0, len(books))
	for _, book := range books {
		rows = append(rows, pgxBook{
			Id:       book.Id,
			Title:    book.Title,
			Summary:  book.Summary,
			ISBN:     book.ISBN,
			AuthorId: book.AuthorId,
		})
	}

	sql, params, err := p.g.Insert("book").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"title":     goqu.L("excluded.title"),
			"summary":   goqu.L("excluded.summary"),
			"isbn":      goqu.L("excluded.isbn"),
			"author_id": goqu.L("excluded.author_id"),
		})).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}

func (p *pgxRepo) LinkBookAndGenres(ctx context.Context, bookId string, genreIds ...uint16) error {
	if len(genreIds) == 0 {
		return nil
	}

	vals := make([][]any, 0, len(genreIds))
	for _, genreId := range genreIds {
		vals = append(vals, []any{bookId, genreId})
	}

	sql, params, err := p.g.Insert("book_genre").
		Cols("book_id", "genre_id").
		Vals(vals...).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}
