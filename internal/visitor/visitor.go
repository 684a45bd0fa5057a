// Package visitor identifies anonymous storefront visitors with a session
// cookie. It runs beside the catalog handlers and never changes their output.
package visitor

import (
	"context"
	"net/http"
	"time"

	"bookstore/internal/platform/logger"

	"github.com/google/uuid"
)

type ctxKey struct{}

type Options struct {
	CookieName     string
	PreferenceName string
	Secure         bool
	MaxAge         time.Duration
}

// SessionIDFrom returns the visitor session id set by Middleware.
func SessionIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware issues an HttpOnly session cookie when the request has none and
// refreshes its expiry otherwise. The preference cookie is only logged.
func Middleware(opts Options, logg *logger.Logger) func(http.Handler) http.Handler {
	if logg == nil {
		logg = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(opts.CookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(opts.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteStrictMode,
			})

			ctx := ContextWithSessionID(r.Context(), id)
			if opts.PreferenceName != "" {
				if pref, err := r.Cookie(opts.PreferenceName); err == nil && pref.Value != "" {
					ctx = logg.WithField(ctx, "book_type", pref.Value)
					logg.Debug(ctx, "visitor preference")
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
