package book

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenRepository connects the store selected by cfg.Driver. The returned
// close function releases its connections.
func OpenRepository(ctx context.Context, cfg config.DBConfig) (Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		return NewPostgresRepo(pool, cfg.Timeout), pool.Close, nil

	case config.DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{Logger: gormlogger.Discard})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite serializes writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		repo := NewGormRepo(db, cfg.Timeout)
		if cfg.AutoMigrate {
			if err := repo.AutoMigrate(ctx); err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
			}
		}
		return repo, func() { _ = sqlDB.Close() }, nil

	case config.DriverMemory:
		return NewMemoryRepo(DemoCatalog()...), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
}
