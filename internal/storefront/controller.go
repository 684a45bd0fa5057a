// Package storefront holds the paging and filter state of a catalog view and
// drives fetches against the catalog API.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"bookstore/internal/book"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

var (
	// ErrSuperseded is returned by a fetch whose parameters changed before it
	// completed. Its response is discarded.
	ErrSuperseded = errors.New("fetch superseded by newer parameters")
	// ErrPageOutOfRange is returned for navigation outside [1, numPages].
	ErrPageOutOfRange = errors.New("page out of range")

	ErrInvalidPageSize = errors.New("page size must be positive")
)

// Fetcher is the subset of the catalog client used by the controller.
type Fetcher interface {
	FetchBooks(ctx context.Context, q book.Query) (book.Page, error)
	Categories(ctx context.Context) ([]string, error)
}

// State is a snapshot of the controller. Books are only set when Status is
// StatusLoaded.
type State struct {
	PageSize           int
	Page               int
	Sorted             bool
	SelectedCategories []string
	Categories         []string

	Status   Status
	Books    []book.Book
	Count    int
	NumPages int
	Err      error
}

func (s State) CanPrev() bool {
	return s.Page > 1
}

func (s State) CanNext() bool {
	return s.Page < s.NumPages
}

type Controller struct {
	fetcher Fetcher

	mu         sync.Mutex
	query      book.Query
	categories []string
	status     Status
	books      []book.Book
	count      int
	numPages   int
	err        error
	generation uint64
	cancel     context.CancelFunc
}

func NewController(fetcher Fetcher, pageSize int) *Controller {
	q := book.DefaultQuery()
	if pageSize > 0 {
		q.PageSize = pageSize
	}
	return &Controller{fetcher: fetcher, query: q}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		PageSize:           c.query.PageSize,
		Page:               c.query.Page,
		Sorted:             c.query.Sorted,
		SelectedCategories: slices.Clone(c.query.Categories),
		Categories:         slices.Clone(c.categories),
		Status:             c.status,
		Books:              slices.Clone(c.books),
		Count:              c.count,
		NumPages:           c.numPages,
		Err:                c.err,
	}
}

// LoadCategories fetches the category list offered as filters.
func (c *Controller) LoadCategories(ctx context.Context) error {
	cats, err := c.fetcher.Categories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	c.mu.Lock()
	c.categories = cats
	c.mu.Unlock()
	return nil
}

// Load fetches the page for the current parameters.
func (c *Controller) Load(ctx context.Context) error {
	return c.update(ctx, func(*book.Query) error { return nil })
}

func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	if n <= 0 {
		return ErrInvalidPageSize
	}
	return c.update(ctx, func(q *book.Query) error {
		q.PageSize = n
		q.Page = 1
		return nil
	})
}

func (c *Controller) SetSorted(ctx context.Context, sorted bool) error {
	return c.update(ctx, func(q *book.Query) error {
		q.Sorted = sorted
		q.Page = 1
		return nil
	})
}

func (c *Controller) SetCategories(ctx context.Context, categories []string) error {
	return c.update(ctx, func(q *book.Query) error {
		q.Categories = slices.Clone(categories)
		q.Page = 1
		return nil
	})
}

// ToggleCategory adds category to the filter, or removes it if selected.
func (c *Controller) ToggleCategory(ctx context.Context, category string) error {
	return c.update(ctx, func(q *book.Query) error {
		if i := slices.Index(q.Categories, category); i >= 0 {
			q.Categories = slices.Delete(slices.Clone(q.Categories), i, i+1)
		} else {
			q.Categories = append(slices.Clone(q.Categories), category)
		}
		q.Page = 1
		return nil
	})
}

// GoToPage moves to page p. Pages outside [1, numPages] are rejected without
// a fetch; page 1 is always reachable.
func (c *Controller) GoToPage(ctx context.Context, p int) error {
	return c.update(ctx, func(q *book.Query) error {
		if p < 1 || p > max(c.numPages, 1) {
			return ErrPageOutOfRange
		}
		q.Page = p
		return nil
	})
}

func (c *Controller) Next(ctx context.Context) error {
	return c.GoToPage(ctx, c.State().Page+1)
}

func (c *Controller) Prev(ctx context.Context) error {
	return c.GoToPage(ctx, c.State().Page-1)
}

// update applies change, cancels any in-flight fetch and fetches the new page.
// A response that arrives after a newer update is dropped.
func (c *Controller) update(ctx context.Context, change func(*book.Query) error) error {
	c.mu.Lock()
	next := c.query
	if err := change(&next); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.generation++
	gen := c.generation
	c.query = next
	c.status = StatusLoading
	c.books = nil
	c.err = nil
	c.mu.Unlock()

	defer cancel()
	page, err := c.fetcher.FetchBooks(fetchCtx, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrSuperseded
	}
	c.cancel = nil
	if err != nil {
		c.status = StatusError
		c.books = nil
		c.count = 0
		c.numPages = 0
		c.err = err
		return err
	}
	c.status = StatusLoaded
	c.books = page.Books
	c.count = page.Count
	c.numPages = book.NumPages(page.Count, next.PageSize)
	return nil
}
