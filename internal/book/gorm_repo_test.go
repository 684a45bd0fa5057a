package book

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupSQLiteRepo(t *testing.T) *GormRepo {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "books.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Skipf("Skipping sqlite test: cannot open database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewGormRepo(db, 5*time.Second)
	require.NoError(t, repo.AutoMigrate(context.Background()))
	return repo
}

func TestGormRepo_Contract(t *testing.T) {
	runRepositoryContract(t, setupSQLiteRepo(t))
}

func TestGormRepo_Ping(t *testing.T) {
	require.NoError(t, setupSQLiteRepo(t).Ping(context.Background()))
}
