package main

import (
	"context"
	"log/slog"
	"os"
	"path"
	"runtime"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"library/internal/logger"
	"library/internal/storage/authors"
	"library/internal/storage/books"
	"library/internal/storage/genres"
	"library/internal/storage/instances"
	"library/internal/types"
)

var dbConnStr = os.Getenv("DATABASE_URL")

var schema = []string{
	`create table if not exists author (
		id text primary key,
		first_name text not null,
		family_name text not null,
		date_of_birth timestamptz,
		date_of_death timestamptz
	)`,
	`create table if not exists genre (
		id smallserial primary key,
		name text not null unique
	)`,
	`create table if not exists book (
		id text primary key,
		title text not null,
		summary text not null,
		isbn text not null,
		author_id text not null references author (id)
	)`,
	`create table if not exists book_genre (
		book_id text not null references book (id),
		genre_id smallint not null references genre (id),
		primary key (book_id, genre_id)
	)`,
	`create table if not exists book_instance (
		id text primary key,
		book_id text not null references book (id),
		imprint text not null,
		status text not null default 'Maintenance',
		due_back timestamptz not null default now()
	)`,
}

func date(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

func main() {
	_, thisFile, _, _ := runtime.Caller(0)
	logger.SetupSLog(slog.LevelInfo, path.Dir(path.Dir(path.Dir(thisFile))), struct{}{})

	ctx := context.Background()

	pg, err := pgxpool.New(ctx, dbConnStr)
	if err != nil {
		slog.Error("failed to create postgres pool: " + err.Error())
		os.Exit(1)
	}
	defer pg.Close()

	for _, ddl := range schema {
		if _, err := pg.Exec(ctx, ddl); err != nil {
			slog.Error("failed to create schema: " + err.Error())
			os.Exit(1)
		}
	}

	ar := authors.NewPGXRepository(pg, slog.Default())
	br := books.NewPGXRepository(pg, slog.Default())
	gr := genres.NewPGXRepository(pg, slog.Default())
	ir := instances.NewPGXRepository(pg, slog.Default())

	seedAuthors := []*types.Author{
		{Id: uuid.NewString(), FirstName: "Patrick", FamilyName: "Rothfuss", Born: date(1973, 6, 6)},
		{Id: uuid.NewString(), FirstName: "Ben", FamilyName: "Bova", Born: date(1932, 11, 8), Died: date(2020, 11, 29)},
		{Id: uuid.NewString(), FirstName: "Isaac", FamilyName: "Asimov", Born: date(1920, 1, 2), Died: date(1992, 4, 6)},
		{Id: uuid.NewString(), FirstName: "Bob", FamilyName: "Billings"},
	}

	if err := ar.Save(ctx, seedAuthors...); err != nil {
		slog.Error("failed to seed authors: " + err.Error())
		os.Exit(1)
	}

	genreIds, err := gr.Insert(ctx, "Fantasy", "Science Fiction", "French Poetry")
	if err != nil {
		slog.Error("failed to seed genres: " + err.Error())
		os.Exit(1)
	}

	seedBooks := []*types.Book{
		{
			Id:       uuid.NewString(),
			Title:    "The Name of the Wind",
			Summary:  "I have stolen princesses back from sleeping barrow kings.",
			ISBN:     "9781473211896",
			AuthorId: seedAuthors[0].Id,
			GenreIds: []uint16{genreIds["Fantasy"]},
		},
		{
			Id:       uuid.NewString(),
			Title:    "The Wise Man's Fear",
			Summary:  "Kvothe takes his first steps on the path of the hero.",
			ISBN:     "9788401352836",
			AuthorId: seedAuthors[0].Id,
			GenreIds: []uint16{genreIds["Fantasy"]},
		},
		{
			Id:       uuid.NewString(),
			Title:    "Apes and Angels",
			Summary:  "Humankind headed out to the stars not for conquest, nor exploration, but to save itself.",
			ISBN:     "9780765379528",
			AuthorId: seedAuthors[1].Id,
			GenreIds: []uint16{genreIds["Science Fiction"]},
		},
		{
			Id:       uuid.NewString(),
			Title:    "The Gods Themselves",
			Summary:  "An alien intelligence pumps limitless free energy into our world.",
			ISBN:     "9780553293364",
			AuthorId: seedAuthors[2].Id,
			GenreIds: []uint16{genreIds["Science Fiction"]},
		},
	}

	if err := br.Save(ctx, seedBooks...); err != nil {
		slog.Error("failed to seed books: " + err.Error())
		os.Exit(1)
	}

	for _, book := range seedBooks {
		if err := br.LinkBookAndGenres(ctx, book.Id, book.GenreIds...); err != nil {
			slog.Error("failed to link book genres: " + err.Error())
			os.Exit(1)
		}
	}

	seedInstances := []*types.BookInstance{
		{Id: uuid.NewString(), BookId: seedBooks[0].Id, Imprint: "London Gollancz, 2014.", Status: types.StatusAvailable},
		{Id: uuid.NewString(), BookId: seedBooks[1].Id, Imprint: "Gollancz, 2011.", Status: types.StatusLoaned},
		{Id: uuid.NewString(), BookId: seedBooks[2].Id, Imprint: "New York Tom Doherty Associates, 2016.", Status: types.StatusAvailable},
		{Id: uuid.NewString(), BookId: seedBooks[3].Id, Imprint: "New York, NY Tom Doherty Associates, LLC, 2015."},
	}

	if err := ir.Save(ctx, seedInstances...); err != nil {
		slog.Error("failed to seed book instances: " + err.Error())
		os.Exit(1)
	}

	slog.Info("Catalog seeded")
}
