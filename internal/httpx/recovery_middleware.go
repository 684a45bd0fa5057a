package httpx

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"bookstore/internal/platform/logger"
)

func RecoveryMiddleware(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrapResponseWriter(w)
			defer func() {
				if rec := recover(); rec != nil {
					if logg != nil {
						ctx := logg.WithField(r.Context(), "stack", string(debug.Stack()))
						logg.Error(ctx, "panic recovered", fmt.Errorf("%v", rec))
					}
					if !rw.wroteHeader() {
						JSONError(rw, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
