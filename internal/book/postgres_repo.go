package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `book_id, title, author, publisher, isbn, classification, category, page_count, price`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if len(q.Categories) > 0 {
		clauses = append(clauses, fmt.Sprintf("category = ANY($%d)", argn))
		args = append(args, q.Categories)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	// COLLATE "C" keeps title order byte-wise, matching the other stores.
	orderBy := "book_id ASC"
	if q.Sorted {
		orderBy = `title COLLATE "C" ASC, book_id ASC`
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		bookColumns, where, orderBy, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.PageSize, q.Offset())
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, fmt.Errorf("query books: %w", err)
	}
	out, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepo) All(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, "SELECT "+bookColumns+" FROM books ORDER BY book_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return collectBooks(rows)
}

func (r *PostgresRepo) Categories(ctx context.Context) ([]string, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT DISTINCT category FROM books ORDER BY category COLLATE "C" ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, "SELECT "+bookColumns+" FROM books WHERE book_id = $1", id)
	return scanOne(row)
}

func (r *PostgresRepo) Create(ctx context.Context, f Fields) (Book, error) {
	const query = `
		INSERT INTO books (title, author, publisher, isbn, classification, category, page_count, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, query,
		f.Title, f.Author, f.Publisher, f.ISBN, f.Classification, f.Category, f.PageCount, f.Price,
	)
	return scanOne(row)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, f Fields) (Book, error) {
	const query = `
		UPDATE books SET
			title = $2,
			author = $3,
			publisher = $4,
			isbn = $5,
			classification = $6,
			category = $7,
			page_count = $8,
			price = $9,
			updated_at = NOW()
		WHERE book_id = $1
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, query,
		id, f.Title, f.Author, f.Publisher, f.ISBN, f.Classification, f.Category, f.PageCount, f.Price,
	)
	return scanOne(row)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE book_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func scanOne(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Publisher, &b.ISBN,
		&b.Classification, &b.Category, &b.PageCount, &b.Price,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Publisher, &b.ISBN,
			&b.Classification, &b.Category, &b.PageCount, &b.Price,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BulkInsert loads many books with COPY. Ids are assigned by the sequence.
func (r *PostgresRepo) BulkInsert(ctx context.Context, books []Fields) (int64, error) {
	rows := make([][]any, len(books))
	for i, f := range books {
		rows[i] = []any{f.Title, f.Author, f.Publisher, f.ISBN, f.Classification, f.Category, f.PageCount, f.Price}
	}
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"books"},
		[]string{"title", "author", "publisher", "isbn", "classification", "category", "page_count", "price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy books: %w", err)
	}
	return n, nil
}
