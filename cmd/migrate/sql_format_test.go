package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMigrations_HaveGooseDirectives(t *testing.T) {
	dir := repoMigrationsDir(t)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		up := strings.Index(string(b), "-- +goose Up")
		down := strings.Index(string(b), "-- +goose Down")
		assert.GreaterOrEqual(t, up, 0, "%s missing '-- +goose Up'", e.Name())
		assert.Greater(t, down, up, "%s needs '-- +goose Down' after Up", e.Name())
	}
}

// The validation bounds on book fields mirror these column definitions.
func TestBooksMigration_MatchesCatalogBounds(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(repoMigrationsDir(t), "00001_create_books.sql"))
	require.NoError(t, err)
	up, down, found := strings.Cut(string(b), "-- +goose Down")
	require.True(t, found)

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS books",
		"book_id        BIGSERIAL PRIMARY KEY",
		"page_count     INTEGER        NOT NULL DEFAULT 0 CHECK (page_count >= 0)",
		"price          NUMERIC(10, 2) NOT NULL DEFAULT 0 CHECK (price >= 0)",
		"isbn           VARCHAR(32)",
		"ON books (category)",
		`ON books (title COLLATE "C", book_id)`,
	} {
		assert.Contains(t, up, want)
	}
	assert.Contains(t, down, "DROP TABLE IF EXISTS books")
}
