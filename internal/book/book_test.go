package book

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_ValidateStoreBounds(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Fields)
		field string
	}{
		{"price above NUMERIC(10,2)", func(f *Fields) { f.Price = decimal.RequireFromString("1e9") }, "price"},
		{"price with a third decimal", func(f *Fields) { f.Price = decimal.RequireFromString("9.999") }, "price"},
		{"page count above INTEGER", func(f *Fields) { f.PageCount = 3000000000 }, "pageCount"},
		{"negative price", func(f *Fields) { f.Price = decimal.RequireFromString("-1") }, "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields("Emma", "Fiction")
			tt.edit(&f)

			var verr *ValidationError
			require.ErrorAs(t, f.Validate(), &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestFields_ValidateAcceptsUpperBounds(t *testing.T) {
	f := fields("Emma", "Fiction")
	f.Price = decimal.RequireFromString("99999999.99")
	f.PageCount = math.MaxInt32
	assert.NoError(t, f.Validate())

	f.Price = decimal.RequireFromString("9.90")
	assert.NoError(t, f.Validate())
}
