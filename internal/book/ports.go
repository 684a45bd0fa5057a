package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage. Every call is
// atomic with respect to the others.
type Repository interface {
	// List applies q inside the store and returns the page plus the filtered total.
	List(ctx context.Context, q Query) ([]Book, int, error)
	All(ctx context.Context) ([]Book, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, f Fields) (Book, error)
	Update(ctx context.Context, id int64, f Fields) (Book, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
