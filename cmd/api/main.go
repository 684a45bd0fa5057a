package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/cart"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/logger"
	"bookstore/internal/platform/redis"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "bookstore-api"}).Error(context.Background(), "load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "bookstore-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := book.OpenRepository(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer closeRepo()
	logg.Info(logg.WithField(ctx, "driver", cfg.DB.Driver), "catalog store ready")

	carts, closeCarts, err := newCartService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCarts()

	var authService *auth.Service
	if cfg.Admin.Enabled() {
		authService = auth.NewService(cfg.Admin.JWTSecret, cfg.Admin.Username, cfg.Admin.PasswordHash, cfg.Admin.TokenTTL)
	} else {
		logg.Warn(ctx, "BOOKSTORE_ADMIN_JWT_SECRET not set; catalog mutations are unauthenticated")
	}

	limiter := httpx.NewRateLimitMiddleware(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateBurst, cfg.HTTP.TrustProxy)
	defer limiter.Close()

	handler := newRouter(deps{
		cfg:     cfg,
		logg:    logg,
		books:   book.NewService(repo),
		carts:   carts,
		auth:    authService,
		metrics: httpx.NewMetrics(),
		limiter: limiter,
	})

	httpServer := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", cfg.App.Addr), "starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newCartService shares carts through Redis when it is configured and keeps
// them in process otherwise.
func newCartService(ctx context.Context, cfg *config.Config) (*cart.Service, func(), error) {
	if !cfg.Redis.Enabled() {
		store := cart.NewMemoryStore(cfg.Cart.TTL)
		return cart.NewService(store, cart.NewMutexLocker(), cfg.Cart.LockTimeout), func() {}, nil
	}
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	store := cart.NewRedisStore(client, cfg.Cart.TTL)
	locker := cart.NewRedisLocker(client, cfg.Cart.LockTTL)
	return cart.NewService(store, locker, cfg.Cart.LockTimeout), func() { _ = client.Close() }, nil
}
