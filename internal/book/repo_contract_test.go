package book

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises repo, which must start empty.
func runRepositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()

	var created []Book
	for _, b := range twelveBooks() {
		got, err := repo.Create(ctx, b.Fields)
		require.NoError(t, err)
		require.NotZero(t, got.ID)
		created = append(created, got)
	}
	for i := 1; i < len(created); i++ {
		require.Greater(t, created[i].ID, created[i-1].ID)
	}

	t.Run("fiction second page", func(t *testing.T) {
		books, total, err := repo.List(ctx, Query{PageSize: 5, Page: 2, Sorted: true, Categories: []string{"Fiction"}})
		require.NoError(t, err)
		assert.Equal(t, 7, total)
		assert.Equal(t, []string{"Moby Dick", "Wuthering Heights"}, titles(books))
	})

	t.Run("store agrees with the in-process engine", func(t *testing.T) {
		all, err := repo.All(ctx)
		require.NoError(t, err)
		for _, q := range []Query{
			{PageSize: 3, Page: 1, Sorted: false},
			{PageSize: 3, Page: 2, Sorted: true},
			{PageSize: 4, Page: 1, Sorted: true, Categories: []string{"Science", "History"}},
			{PageSize: 5, Page: 9, Sorted: true},
			{PageSize: 1 << 62, Page: 3, Sorted: true},
			{PageSize: math.MaxInt, Page: 1, Sorted: false},
		} {
			want, err := Apply(all, q)
			require.NoError(t, err)
			books, total, err := repo.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, want.Count, total)
			assert.Equal(t, ids(want.Books), ids(books))
		}
	})

	t.Run("categories", func(t *testing.T) {
		cats, err := repo.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Fiction", "History", "Politics", "Science"}, cats)
	})

	t.Run("get and update", func(t *testing.T) {
		target := created[1]
		f := target.Fields
		f.Price = decimal.RequireFromString("19.99")
		f.Category = "Cosmology"

		updated, err := repo.Update(ctx, target.ID, f)
		require.NoError(t, err)
		assert.Equal(t, target.ID, updated.ID)

		got, err := repo.GetByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cosmology", got.Category)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")))
	})

	t.Run("absent ids", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.Update(ctx, 9999, fields("Ghost", "Fiction"))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, 9999), ErrNotFound)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 12)
	})

	t.Run("delete twice", func(t *testing.T) {
		id := created[0].ID
		require.NoError(t, repo.Delete(ctx, id))
		assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent inserts get distinct ids", func(t *testing.T) {
		const n = 10
		var wg sync.WaitGroup
		got := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b, err := repo.Create(ctx, fields("Parallel", "Fiction"))
				if assert.NoError(t, err) {
					got <- b.ID
				}
			}()
		}
		wg.Wait()
		close(got)

		seen := map[int64]bool{}
		for id := range got {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})

	t.Run("largest accepted values round-trip", func(t *testing.T) {
		f := fields("Folio Society Complete Works", "Collectors")
		f.Price = decimal.RequireFromString("99999999.99")
		f.PageCount = math.MaxInt32
		require.NoError(t, f.Validate())

		b, err := repo.Create(ctx, f)
		require.NoError(t, err)
		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt32, got.PageCount)
		assert.Equal(t, "99999999.99", got.Price.StringFixed(2))
		assert.True(t, got.Price.Equal(f.Price))
		require.NoError(t, repo.Delete(ctx, b.ID))
	})
}
