package server

import (
	"context"
	"sort"

	"library/internal/storage"
	"library/internal/types"
)

// In-memory repositories backing the handler tests. List queries honor the
// sort fields the handlers actually use, with a stable sort so equal keys
// keep insertion order, same as the store contract.

type stubAuthors struct {
	authors []*types.Author
	err     error
}

func (s *stubAuthors) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}

	return int64(len(s.authors)), nil
}

func (s *stubAuthors) GetAll(ctx context.Context, sorts ...storage.Sort) ([]*types.Author, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := append([]*types.Author(nil), s.authors...)
	for _, srt := range sorts {
		if srt.Field != "family_name" {
			continue
		}
		sort.SliceStable(ret, func(i, j int) bool {
			if srt.Desc {
				return ret[i].FamilyName > ret[j].FamilyName
			}
			return ret[i].FamilyName < ret[j].FamilyName
		})
	}

	return ret, nil
}

func (s *stubAuthors) GetById(ctx context.Context, id string) (*types.Author, error) {
	if s.err != nil {
		return nil, s.err
	}

	for _, author := range s.authors {
		if author.Id == id {
			return author, nil
		}
	}

	return nil, nil
}

func (s *stubAuthors) GetByIds(ctx context.Context, ids ...string) (map[string]*types.Author, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := make(map[string]*types.Author, len(ids))
	for _, id := range ids {
		for _, author := range s.authors {
			if author.Id == id {
				ret[id] = author
			}
		}
	}

	return ret, nil
}

func (s *stubAuthors) GetIdByName(ctx context.Context, familyName, firstName string) (string, error) {
	if s.err != nil {
		return "", s.err
	}

	for _, author := range s.authors {
		if author.FamilyName == familyName && author.FirstName == firstName {
			return author.Id, nil
		}
	}

	return "", nil
}

func (s *stubAuthors) Save(ctx context.Context, authors ...*types.Author) error {
	if s.err != nil {
		return s.err
	}

	s.authors = append(s.authors, authors...)
	return nil
}

type stubGenres struct {
	names map[string]uint16
	err   error
}

func (s *stubGenres) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}

	return int64(len(s.names)), nil
}

func (s *stubGenres) GetByIds(ctx context.Context, ids ...uint16) (map[uint16]string, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := make(map[uint16]string)
	for _, id := range ids {
		for name, gid := range s.names {
			if gid == id {
				ret[id] = name
			}
		}
	}

	return ret, nil
}

func (s *stubGenres) GetIdByName(ctx context.Context, name string) (uint16, error) {
	if s.err != nil {
		return 0, s.err
	}

	return s.names[name], nil
}

func (s *stubGenres) Insert(ctx context.Context, names ...string) (map[string]uint16, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := make(map[string]uint16, len(names))
	for _, name := range names {
		if _, ok := s.names[name]; !ok {
			s.names[name] = uint16(len(s.names) + 1)
		}
		ret[name] = s.names[name]
	}

	return ret, nil
}

type stubBooks struct {
	books  []*types.Book
	linked map[string][]uint16
	err    error
}

func (s *stubBooks) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}

	return int64(len(s.books)), nil
}

func (s *stubBooks) GetById(ctx context.Context, id string) (*types.Book, error) {
	if s.err != nil {
		return nil, s.err
	}

	for _, book := range s.books {
		if book.Id == id {
			return book, nil
		}
	}

	return nil, nil
}

func (s *stubBooks) GetByIds(ctx context.Context, ids ...string) (map[string]*types.Book, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := make(map[string]*types.Book, len(ids))
	for _, id := range ids {
		for _, book := range s.books {
			if book.Id == id {
				ret[id] = book
			}
		}
	}

	return ret, nil
}

func (s *stubBooks) GetAll(ctx context.Context, fields []string, sorts ...storage.Sort) ([]*types.Book, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := append([]*types.Book(nil), s.books...)
	for _, srt := range sorts {
		if srt.Field != "title" {
			continue
		}
		sort.SliceStable(ret, func(i, j int) bool {
			if srt.Desc {
				return ret[i].Title > ret[j].Title
			}
			return ret[i].Title < ret[j].Title
		})
	}

	return ret, nil
}

func (s *stubBooks) Save(ctx context.Context, books ...*types.Book) error {
	if s.err != nil {
		return s.err
	}

	s.books = append(s.books, books...)
	return nil
}

func (s *stubBooks) LinkBookAndGenres(ctx context.Context, bookId string, genreIds ...uint16) error {
	if s.err != nil {
		return s.err
	}

	if s.linked == nil {
		s.linked = make(map[string][]uint16)
	}
	s.linked[bookId] = append(s.linked[bookId], genreIds...)
	return nil
}

type stubInstances struct {
	instances []*types.BookInstance
	unresolve bool // FindByBook yields nil for every id
	err       error
}

func (s *stubInstances) Count(ctx context.Context, filter storage.Filter) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}

	if status, ok := filter["status"].(string); ok {
		var n int64
		for _, instance := range s.instances {
			if string(instance.Status) == status {
				n++
			}
		}
		return n, nil
	}

	return int64(len(s.instances)), nil
}

func (s *stubInstances) FindByBook(ctx context.Context, bookId string, fields ...string) ([]*types.BookInstance, error) {
	if s.err != nil {
		return nil, s.err
	}

	if bookId == "" || s.unresolve {
		return nil, nil
	}

	ret := make([]*types.BookInstance, 0)
	for _, instance := range s.instances {
		if instance.BookId == bookId {
			ret = append(ret, instance)
		}
	}

	return ret, nil
}

func (s *stubInstances) FindAllByStatus(ctx context.Context, status types.Status) ([]*types.BookInstance, error) {
	if s.err != nil {
		return nil, s.err
	}

	ret := make([]*types.BookInstance, 0)
	for _, instance := range s.instances {
		if instance.Status == status {
			ret = append(ret, instance)
		}
	}

	return ret, nil
}

func (s *stubInstances) Save(ctx context.Context, instances ...*types.BookInstance) error {
	if s.err != nil {
		return s.err
	}

	s.instances = append(s.instances, instances...)
	return nil
}
