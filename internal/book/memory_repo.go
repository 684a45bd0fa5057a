package book

import (
	"context"
	"sync"
)

// MemoryRepo keeps the catalog in process. Books are held in insertion order,
// which is also ascending id order.
type MemoryRepo struct {
	mu     sync.RWMutex
	books  []Book
	nextID int64
}

func NewMemoryRepo(seed ...Fields) *MemoryRepo {
	r := &MemoryRepo{nextID: 1}
	for _, f := range seed {
		r.insertLocked(f)
	}
	return r
}

func (r *MemoryRepo) insertLocked(f Fields) Book {
	b := Book{ID: r.nextID, Fields: f}
	r.nextID++
	r.books = append(r.books, b)
	return b
}

func (r *MemoryRepo) snapshot() []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Book, len(r.books))
	copy(out, r.books)
	return out
}

func (r *MemoryRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	page, err := Apply(r.snapshot(), q)
	if err != nil {
		return nil, 0, err
	}
	return page.Books, page.Count, nil
}

func (r *MemoryRepo) All(ctx context.Context) ([]Book, error) {
	return r.snapshot(), nil
}

func (r *MemoryRepo) Categories(ctx context.Context) ([]string, error) {
	return DistinctCategories(r.snapshot()), nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.books[i], nil
	}
	return Book{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, f Fields) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(f), nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, f Fields) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return Book{}, ErrNotFound
	}
	r.books[i].Fields = f
	return r.books[i], nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.books = append(r.books[:i], r.books[i+1:]...)
	return nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryRepo) indexOf(id int64) int {
	for i := range r.books {
		if r.books[i].ID == id {
			return i
		}
	}
	return -1
}
