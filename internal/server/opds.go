package server

import (
	"encoding/xml"
	"io"
	"net/http"

	"github.com/opds-community/libopds2-go/opds1"

	"library/internal/response"
	"library/internal/storage"
	"library/internal/storage/authors"
	"library/internal/storage/books"
)

const catalogContentType = "application/atom+xml;profile=opds-catalog"

// opdsCatalog serves the whole book list as an OPDS 1 acquisition feed, so
// generic e-reader clients can browse the catalog.
func opdsCatalog(ar authors.Repository, br books.Repository, rr *response.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := br.GetAll(r.Context(), nil, storage.Sort{Field: "title"})
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Error retrieving catalog", err)
			return
		}

		as, err := fetchAuthorsOf(r, ar, rows)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Error retrieving catalog", err)
			return
		}

		feed := opds1.Feed{
			Title: "Library Catalog",
			Links: []opds1.Link{{
				Rel:      "self",
				Href:     "/catalog",
				TypeLink: catalogContentType,
			}},
		}

		for _, book := range rows {
			entry := opds1.Entry{
				ID:      "tag:book:" + book.Id,
				Title:   book.Title,
				Content: opds1.Content{Content: book.Summary},
			}
			if author, ok := as[book.AuthorId]; ok {
				entry.Author = []opds1.Author{{Name: author.Name()}}
			}
			feed.Entries = append(feed.Entries, entry)
		}

		bs, err := xml.Marshal(&feed)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), http.StatusInternalServerError, "Error retrieving catalog", err)
			return
		}

		w.Header().Set("Content-Type", catalogContentType)
		_, _ = io.WriteString(w, xml.Header)
		_, _ = w.Write(bs)
	}
}
