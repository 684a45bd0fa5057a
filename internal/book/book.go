package book

import (
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/platform/validate"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the shape storefront clients expect.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrNotFound is returned when no book has the requested id.
var ErrNotFound = errors.New("book not found")

// Fields lists every mutable attribute of a book. Updates replace all of them
// at once; the identity lives on Book and never changes.
type Fields struct {
	Title          string          `json:"title" validate:"required,max=255"`
	Author         string          `json:"author" validate:"required,max=255"`
	Publisher      string          `json:"publisher" validate:"required,max=255"`
	ISBN           string          `json:"isbn" validate:"required,max=32"`
	Classification string          `json:"classification" validate:"required,max=255"`
	Category       string          `json:"category" validate:"required,max=255"`
	PageCount      int             `json:"pageCount" validate:"gte=0,lte=2147483647"`
	Price          decimal.Decimal `json:"price" validate:"gte=0,lte=99999999.99"`
}

// Book is a catalog entry. ID is assigned by the store.
type Book struct {
	ID int64 `json:"bookId"`
	Fields
}

// Validate checks f and returns a *ValidationError listing every bad field.
// Bounds follow the books table: INTEGER page counts and NUMERIC(10,2) prices.
func (f Fields) Validate() error {
	errs := validate.Struct(f)
	if !f.Price.Equal(f.Price.Truncate(2)) {
		errs = append(errs, validate.FieldError{Field: "price", Message: "price must have at most 2 decimal places"})
	}
	if len(errs) > 0 {
		return &ValidationError{Message: "invalid book", Fields: errs}
	}
	return nil
}

// ValidationError reports caller input that violates the catalog contract.
type ValidationError struct {
	Message string
	Fields  []validate.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

func invalidParam(field, message string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  []validate.FieldError{{Field: field, Message: message}},
	}
}

// StoreError wraps a failure of the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("book store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
