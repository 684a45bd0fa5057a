package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/platform/logger"
)

type bulkInserter interface {
	BulkInsert(ctx context.Context, books []book.Fields) (int64, error)
}

func main() {
	var (
		generate = flag.Int("generate", 0, "Number of synthetic books to add after the demo catalog")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated books")
	)
	flag.Parse()

	config.LoadEnvFiles()
	logg := logger.New(logger.Options{ServiceName: "bookstore-seed", Format: os.Getenv("LOG_FORMAT")})
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "load config", err)
		os.Exit(1)
	}

	repo, closeRepo, err := book.OpenRepository(ctx, cfg.DB)
	if err != nil {
		logg.Error(ctx, "open store", err)
		os.Exit(1)
	}
	defer closeRepo()

	books := book.DemoCatalog()
	if *generate > 0 {
		books = append(books, book.GenerateCatalog(*generate, rand.New(rand.NewSource(*seed)))...)
	}

	n, err := insert(ctx, repo, books)
	if err != nil {
		logg.Error(ctx, "insert books", err)
		os.Exit(1)
	}

	all, err := repo.All(ctx)
	if err != nil {
		logg.Error(ctx, "count books", err)
		os.Exit(1)
	}
	ctx = logg.WithFields(ctx, map[string]any{"inserted": n, "total": len(all), "driver": cfg.DB.Driver})
	logg.Info(ctx, "seed complete")
	fmt.Printf("Inserted %d books, catalog now holds %d\n", n, len(all))
}

// insert uses COPY when the store supports it and falls back to one insert
// per book.
func insert(ctx context.Context, repo book.Repository, books []book.Fields) (int64, error) {
	for _, f := range books {
		if err := f.Validate(); err != nil {
			return 0, fmt.Errorf("%q: %w", f.Title, err)
		}
	}
	if bulk, ok := repo.(bulkInserter); ok {
		return bulk.BulkInsert(ctx, books)
	}
	var n int64
	for _, f := range books {
		if _, err := repo.Create(ctx, f); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
