package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// bookRecord is the row layout shared with the Postgres migrations.
type bookRecord struct {
	ID             int64           `gorm:"column:book_id;primaryKey;autoIncrement"`
	Title          string          `gorm:"column:title;not null"`
	Author         string          `gorm:"column:author;not null"`
	Publisher      string          `gorm:"column:publisher;not null"`
	ISBN           string          `gorm:"column:isbn;not null"`
	Classification string          `gorm:"column:classification;not null"`
	Category       string          `gorm:"column:category;not null;index"`
	PageCount      int             `gorm:"column:page_count;not null;default:0"`
	Price          decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (bookRecord) TableName() string {
	return "books"
}

func recordFrom(f Fields) bookRecord {
	return bookRecord{
		Title:          f.Title,
		Author:         f.Author,
		Publisher:      f.Publisher,
		ISBN:           f.ISBN,
		Classification: f.Classification,
		Category:       f.Category,
		PageCount:      f.PageCount,
		Price:          f.Price,
	}
}

func (rec bookRecord) toBook() Book {
	return Book{
		ID: rec.ID,
		Fields: Fields{
			Title:          rec.Title,
			Author:         rec.Author,
			Publisher:      rec.Publisher,
			ISBN:           rec.ISBN,
			Classification: rec.Classification,
			Category:       rec.Category,
			PageCount:      rec.PageCount,
			Price:          rec.Price,
		},
	}
}

// GormRepo stores the catalog through GORM. It backs the SQLite deployment.
type GormRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormRepo(db *gorm.DB, timeout time.Duration) *GormRepo {
	return &GormRepo{db: db, timeout: timeout}
}

// AutoMigrate creates or updates the books table.
func (r *GormRepo) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&bookRecord{})
}

func (r *GormRepo) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(timeoutCtx), cancel
}

func (r *GormRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	filtered := func() *gorm.DB {
		scope := db.Model(&bookRecord{})
		if len(q.Categories) > 0 {
			scope = scope.Where("category IN ?", q.Categories)
		}
		return scope
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	order := "book_id ASC"
	if q.Sorted {
		order = "title ASC, book_id ASC"
	}

	var recs []bookRecord
	err := filtered().
		Order(order).
		Limit(q.PageSize).
		Offset(q.Offset()).
		Find(&recs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("query books: %w", err)
	}
	return toBooks(recs), int(total), nil
}

func (r *GormRepo) All(ctx context.Context) ([]Book, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var recs []bookRecord
	if err := db.Order("book_id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return toBooks(recs), nil
}

func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	cats := []string{}
	err := db.Model(&bookRecord{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return cats, nil
}

func (r *GormRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var rec bookRecord
	if err := db.First(&rec, "book_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return rec.toBook(), nil
}

func (r *GormRepo) Create(ctx context.Context, f Fields) (Book, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	rec := recordFrom(f)
	if err := db.Create(&rec).Error; err != nil {
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return rec.toBook(), nil
}

func (r *GormRepo) Update(ctx context.Context, id int64, f Fields) (Book, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var out Book
	err := db.Transaction(func(tx *gorm.DB) error {
		var rec bookRecord
		if err := tx.First(&rec, "book_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		next := recordFrom(f)
		next.ID = rec.ID
		next.CreatedAt = rec.CreatedAt
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		out = next.toBook()
		return nil
	})
	if err != nil {
		return Book{}, err
	}
	return out, nil
}

func (r *GormRepo) Delete(ctx context.Context, id int64) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	res := db.Delete(&bookRecord{}, "book_id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return sqlDB.PingContext(timeoutCtx)
}

func toBooks(recs []bookRecord) []Book {
	out := make([]Book, len(recs))
	for i, rec := range recs {
		out[i] = rec.toBook()
	}
	return out
}
