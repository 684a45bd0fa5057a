package main

import (
	"context"
	"net/http"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/cart"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/crypto"
	"bookstore/internal/platform/logger"
	"bookstore/internal/visitor"
)

type deps struct {
	cfg     *config.Config
	logg    *logger.Logger
	books   *book.Service
	carts   *cart.Service
	auth    *auth.Service
	metrics *httpx.Metrics
	limiter *httpx.RateLimitMiddleware
}

func newRouter(d deps) http.Handler {
	bookHandler := book.NewHTTPHandler(d.books, d.logg)
	cartHandler := cart.NewHTTPHandler(d.carts, d.logg)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.books.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", d.metrics.Handler())

	// Mutations need an admin token only when admin auth is configured.
	guard := func(h http.HandlerFunc) http.Handler { return h }
	if d.cfg.Admin.Enabled() && d.auth != nil {
		requireAdmin := httpx.AuthMiddleware(d.cfg.Admin.JWTSecret)
		requireRole := httpx.RequireRole(crypto.RoleAdmin)
		guard = func(h http.HandlerFunc) http.Handler { return requireAdmin(requireRole(h)) }
		router.HandleFunc("POST /admin/login", auth.NewHTTPHandler(d.auth, d.logg).Login)
	}

	router.HandleFunc("GET /books", bookHandler.List)
	router.HandleFunc("GET /books/all", bookHandler.All)
	router.HandleFunc("GET /books/categories", bookHandler.Categories)
	router.HandleFunc("GET /books/{id}", bookHandler.Get)
	router.Handle("POST /books", guard(bookHandler.Create))
	router.Handle("PUT /books/{id}", guard(bookHandler.Update))
	router.Handle("DELETE /books/{id}", guard(bookHandler.Delete))

	// Routes of the first storefront release.
	router.HandleFunc("GET /api/Books/SomeBooks", bookHandler.List)
	router.HandleFunc("GET /api/Books/AllBooks", bookHandler.All)
	router.HandleFunc("GET /api/Books/GetBookCategories", bookHandler.Categories)
	router.Handle("POST /api/Books/AddBook", guard(bookHandler.Create))
	router.Handle("PUT /api/Books/UpdateBook/{id}", guard(bookHandler.Update))
	router.Handle("DELETE /api/Books/DeleteBook/{id}", guard(bookHandler.Delete))

	router.HandleFunc("GET /cart", cartHandler.Get)
	router.HandleFunc("POST /cart/items", cartHandler.AddItem)
	router.HandleFunc("DELETE /cart/items/{bookId}", cartHandler.RemoveItem)
	router.HandleFunc("DELETE /cart", cartHandler.Clear)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RecoveryMiddleware(d.logg),
		httpx.RequestIDMiddleware(d.logg),
		httpx.AccessLogMiddleware(d.logg),
		httpx.SecurityHeadersMiddleware(d.cfg.HTTP.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.HTTP.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(d.cfg.HTTP.MaxBodyBytes),
	}
	if d.limiter != nil {
		middlewares = append(middlewares, d.limiter.Middleware)
	}
	middlewares = append(middlewares,
		visitor.Middleware(visitor.Options{
			CookieName:     d.cfg.Session.CookieName,
			PreferenceName: d.cfg.Session.PreferenceName,
			Secure:         d.cfg.Session.CookieSecure,
			MaxAge:         d.cfg.Session.CookieMaxAge,
		}, d.logg),
		// Innermost so it sees the pattern matched by the router.
		d.metrics.Middleware,
	)
	return httpx.Chain(router, middlewares...)
}
