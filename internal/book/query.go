package book

import (
	"math"
	"sort"
)

const (
	DefaultPageSize = 5
	DefaultPage     = 1
)

// Query selects a page of the catalog.
//
// Categories filters by exact, case-sensitive membership; an empty set keeps
// every book. Sorted orders by title with ties broken by id; otherwise the
// store's natural order (ascending id) is kept.
type Query struct {
	PageSize   int
	Page       int
	Sorted     bool
	Categories []string
}

// DefaultQuery returns the parameters used when a request omits them.
func DefaultQuery() Query {
	return Query{PageSize: DefaultPageSize, Page: DefaultPage, Sorted: true}
}

// Validate rejects non-positive page sizes and page numbers. Nothing is clamped.
func (q Query) Validate() error {
	if q.PageSize <= 0 {
		return invalidParam("pageSize", "pageSize must be a positive integer")
	}
	if q.Page <= 0 {
		return invalidParam("page", "page must be a positive integer")
	}
	return nil
}

// Offset is the number of matching books skipped before the page starts.
// It saturates at math.MaxInt, which no store can reach, so oversized pages
// read as past the end.
func (q Query) Offset() int {
	if q.Page <= 1 || q.PageSize <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return q.PageSize * (q.Page - 1)
}

// Page is one slice of the filtered catalog plus the size of the whole
// filtered set.
type Page struct {
	Books []Book `json:"books"`
	Count int    `json:"count"`
}

// NumPages is ceil(total/pageSize).
func NumPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	n := total / pageSize
	if total%pageSize != 0 {
		n++
	}
	return n
}

// Apply runs q over catalog, which must be in the store's natural order.
// catalog is not modified.
func Apply(catalog []Book, q Query) (Page, error) {
	if err := q.Validate(); err != nil {
		return Page{}, err
	}

	matched := filterByCategory(catalog, q.Categories)
	if q.Sorted {
		sortByTitle(matched)
	}

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := total
	if q.PageSize < total-start {
		end = start + q.PageSize
	}

	books := make([]Book, end-start)
	copy(books, matched[start:end])
	return Page{Books: books, Count: total}, nil
}

func filterByCategory(catalog []Book, categories []string) []Book {
	out := make([]Book, 0, len(catalog))
	if len(categories) == 0 {
		return append(out, catalog...)
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	for _, b := range catalog {
		if _, ok := set[b.Category]; ok {
			out = append(out, b)
		}
	}
	return out
}

func sortByTitle(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID < books[j].ID
	})
}

// DistinctCategories returns each category in catalog once, ascending.
func DistinctCategories(catalog []Book) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, b := range catalog {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	sort.Strings(out)
	return out
}
