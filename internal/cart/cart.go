package cart

import (
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/platform/validate"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MaxQuantity caps the copies of one book in a cart, merged lines included.
const MaxQuantity = 9999

// ErrLockTimeout is returned when another request holds the session's cart
// for longer than the configured wait.
var ErrLockTimeout = errors.New("cart is busy")

// Item is one line of a cart. Title and Price are snapshotted when the book
// is first added and are not refreshed afterwards.
type Item struct {
	BookID   int64           `json:"bookId" validate:"gte=1"`
	Title    string          `json:"title" validate:"required,max=255"`
	Price    decimal.Decimal `json:"price" validate:"gte=0,lte=99999999.99"`
	Quantity int             `json:"quantity" validate:"gte=1,lte=9999"`
}

// Cart holds items in the order they were first added, at most one per book.
type Cart struct {
	Items []Item `json:"items"`
}

// Add merges item into the cart. An existing line for the same book gains
// item.Quantity; its title and price stay as first recorded.
func (c *Cart) Add(item Item) error {
	if errs := validate.Struct(item); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	for i := range c.Items {
		if c.Items[i].BookID == item.BookID {
			if c.Items[i].Quantity > MaxQuantity-item.Quantity {
				return &ValidationError{Fields: []validate.FieldError{{
					Field:   "quantity",
					Message: fmt.Sprintf("quantity must be at most %d per book", MaxQuantity),
				}}}
			}
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove drops the line for bookID. Removing an absent book is a no-op.
func (c *Cart) Remove(bookID int64) {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Total is the sum of price times quantity over every line.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Quantity is the number of copies across all lines.
func (c Cart) Quantity() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// ValidationError rejects an item that cannot enter a cart.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return fmt.Sprintf("invalid cart item: %s", strings.Join(parts, "; "))
}
