package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"library/internal/response"
	"library/internal/storage"
	"library/internal/storage/authors"
	"library/internal/storage/books"
	"library/internal/storage/genres"
	"library/internal/storage/instances"
	"library/internal/types"
)

const (
	placeholderSummary = "A summary of "
	placeholderISBN    = "1234567890"
)

type bookCopy struct {
	Imprint string       `json:"imprint"`
	Status  types.Status `json:"status"`
}

type bookDetail struct {
	Title  string     `json:"title"`
	Author string     `json:"author"`
	Copies []bookCopy `json:"copies"`
}

type newBookInput struct {
	FamilyName string `json:"familyName"`
	FirstName  string `json:"firstName"`
	GenreName  string `json:"genreName"`
	BookTitle  string `json:"bookTitle"`
}

func Handler(ar authors.Repository, br books.Repository, gr genres.Repository, ir instances.Repository,
	rr *response.Responder) http.Handler {

	r := chi.NewRouter()

	r.Get("/authors", func(w http.ResponseWriter, r *http.Request) {
		rows, err := ar.GetAll(r.Context(), storage.Sort{Field: "family_name"})
		if err != nil {
			rr.SendTextAndLogError(w, r.Context(), "No authors found", err)
			return
		}

		if len(rows) == 0 {
			rr.SendText(w, r.Context(), "No authors found")
			return
		}

		lines := make([]string, 0, len(rows))
		for _, author := range rows {
			lines = append(lines, author.Name()+" : "+author.Lifespan())
		}

		rr.SendJson(w, r.Context(), lines)
	})

	r.Get("/books", func(w http.ResponseWriter, r *http.Request) {
		rows, err := br.GetAll(r.Context(), []string{"title", "author"}, storage.Sort{Field: "title"})
		if err != nil {
			rr.SendTextAndLogError(w, r.Context(), "No books found", err)
			return
		}

		as, err := fetchAuthorsOf(r, ar, rows)
		if err != nil {
			rr.SendTextAndLogError(w, r.Context(), "No books found", err)
			return
		}

		lines := make([]string, 0, len(rows))
		for _, book := range rows {
			name := ""
			if author, ok := as[book.AuthorId]; ok {
				name = author.Name()
			}
			lines = append(lines, book.Id+" : "+book.Title+" : "+name)
		}

		rr.SendJson(w, r.Context(), lines)
	})

	r.Get("/available", func(w http.ResponseWriter, r *http.Request) {
		rows, err := ir.FindAllByStatus(r.Context(), types.StatusAvailable)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Status not found", err)
			return
		}

		var bookIds []string
		seen := make(map[string]struct{})
		for _, row := range rows {
			if _, ok := seen[row.BookId]; !ok {
				seen[row.BookId] = struct{}{}
				bookIds = append(bookIds, row.BookId)
			}
		}

		bs, err := br.GetByIds(r.Context(), bookIds...)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Status not found", err)
			return
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			title := ""
			if book, ok := bs[row.BookId]; ok {
				title = book.Title
			}
			lines = append(lines, title+" : "+string(row.Status))
		}

		rr.SendJson(w, r.Context(), lines)
	})

	r.Get("/book_dtls", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")

		var book *types.Book
		var copies []*types.BookInstance

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			book, err = br.GetById(ctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			copies, err = ir.FindByBook(ctx, id)
			return err
		})

		if err := g.Wait(); err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Error fetching book "+id, err)
			return
		}

		if book == nil {
			rr.RespondNotFound(w, r.Context(), "Book "+id+" not found")
			return
		}

		// nil means the copies lookup itself did not resolve, which is not
		// the same as a book with zero copies
		if copies == nil {
			rr.RespondNotFound(w, r.Context(), "Book details not found for book "+id)
			return
		}

		author, err := ar.GetById(r.Context(), book.AuthorId)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Error fetching book "+id, err)
			return
		}

		name := ""
		if author != nil {
			name = author.Name()
		}

		dtl := bookDetail{
			Title:  book.Title,
			Author: name,
			Copies: make([]bookCopy, 0, len(copies)),
		}
		for _, c := range copies {
			dtl.Copies = append(dtl.Copies, bookCopy{Imprint: c.Imprint, Status: c.Status})
		}

		rr.SendJson(w, r.Context(), dtl)
	})

	r.Post("/newbook", func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeNewBook(r)
		if err != nil || in.FamilyName == "" || in.FirstName == "" || in.GenreName == "" || in.BookTitle == "" {
			rr.SendText(w, r.Context(), "Invalid Inputs")
			return
		}

		var authorId string
		var genreId uint16

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			authorId, err = ar.GetIdByName(ctx, in.FamilyName, in.FirstName)
			return err
		})
		g.Go(func() error {
			var err error
			genreId, err = gr.GetIdByName(ctx, in.GenreName)
			return err
		})

		err = g.Wait()
		if err == nil && authorId == "" {
			err = errors.New("author " + in.FamilyName + ", " + in.FirstName + " not found")
		}
		if err == nil && genreId == 0 {
			err = errors.New("genre " + in.GenreName + " not found")
		}
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError,
				"Error creating book: "+err.Error(), err)
			return
		}

		book := &types.Book{
			Id:       uuid.NewString(),
			Title:    in.BookTitle,
			Summary:  placeholderSummary + in.BookTitle,
			ISBN:     placeholderISBN,
			AuthorId: authorId,
			GenreIds: []uint16{genreId},
		}

		err = br.Save(r.Context(), book)
		if err == nil {
			err = br.LinkBookAndGenres(r.Context(), book.Id, genreId)
		}
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError,
				"Error creating book: "+err.Error(), err)
			return
		}

		rr.SendJson(w, r.Context(), book)
	})

	r.Get("/home/stats", func(w http.ResponseWriter, r *http.Request) {
		var counts [5]int64

		for i, count := range []func() (int64, error){
			func() (int64, error) { return br.Count(r.Context(), nil) },
			func() (int64, error) { return ir.Count(r.Context(), nil) },
			func() (int64, error) {
				return ir.Count(r.Context(), storage.Filter{"status": string(types.StatusAvailable)})
			},
			func() (int64, error) { return ar.Count(r.Context(), nil) },
			func() (int64, error) { return gr.Count(r.Context(), nil) },
		} {
			n, err := count()
			if err != nil {
				rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError,
					"Error retrieving home data: "+err.Error(), err)
				return
			}
			counts[i] = n
		}

		msg := fmt.Sprintf(`
      <div>
        <p>Books: %d</p>
        <p>Copies: %d</p>
        <p>Copies Available: %d</p>
        <p>Authors: %d</p>
        <p>Genres: %d</p>
      </div>
    `, counts[0], counts[1], counts[2], counts[3], counts[4])

		rr.SendHtml(w, r.Context(), msg)
	})

	r.Get("/catalog", opdsCatalog(ar, br, rr))

	return r
}

// fetchAuthorsOf batch-resolves the author references of a book list.
func fetchAuthorsOf(r *http.Request, ar authors.Repository, rows []*types.Book) (map[string]*types.Author, error) {
	var authorIds []string
	seen := make(map[string]struct{})

	for _, row := range rows {
		if _, ok := seen[row.AuthorId]; !ok {
			seen[row.AuthorId] = struct{}{}
			authorIds = append(authorIds, row.AuthorId)
		}
	}

	return ar.GetByIds(r.Context(), authorIds...)
}

func decodeNewBook(r *http.Request) (newBookInput, error) {
	var in newBookInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&in)
		return in, err
	}

	err := r.ParseForm()
	if err != nil {
		return in, err
	}

	in.FamilyName = strings.TrimSpace(r.PostFormValue("familyName"))
	in.FirstName = strings.TrimSpace(r.PostFormValue("firstName"))
	in.GenreName = strings.TrimSpace(r.PostFormValue("genreName"))
	in.BookTitle = strings.TrimSpace(r.PostFormValue("bookTitle"))

	return in, nil
}
