package book

import (
	"context"
	"errors"
)

// Service provides the catalog operations used by the storefront and the
// admin page.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the page selected by q and the number of books matching its filter.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	if err := q.Validate(); err != nil {
		return Page{}, err
	}
	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, storeErr("list", err)
	}
	if books == nil {
		books = []Book{}
	}
	return Page{Books: books, Count: total}, nil
}

// All returns the whole catalog in natural order.
func (s *Service) All(ctx context.Context) ([]Book, error) {
	books, err := s.repo.All(ctx)
	if err != nil {
		return nil, storeErr("all", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Categories returns the distinct categories present in the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, storeErr("categories", err)
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, storeErr("get", err)
	}
	return b, nil
}

// Create stores a new book and returns it with its assigned id.
func (s *Service) Create(ctx context.Context, f Fields) (Book, error) {
	if err := f.Validate(); err != nil {
		return Book{}, err
	}
	b, err := s.repo.Create(ctx, f)
	if err != nil {
		return Book{}, storeErr("create", err)
	}
	return b, nil
}

// Update replaces every mutable field of the book identified by id. b.ID must
// match id.
func (s *Service) Update(ctx context.Context, id int64, b Book) (Book, error) {
	if b.ID != id {
		return Book{}, invalidParam("bookId", "bookId in body does not match the path")
	}
	if err := b.Fields.Validate(); err != nil {
		return Book{}, err
	}
	updated, err := s.repo.Update(ctx, id, b.Fields)
	if err != nil {
		return Book{}, storeErr("update", err)
	}
	return updated, nil
}

// Delete removes a book. Deleting an unknown id returns ErrNotFound and
// changes nothing.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
