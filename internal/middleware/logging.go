package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/parcelhub/parcelhub/internal/auth"
)

// RequestLogger logs every request with method, path, status, principal
// and duration. Context values added by inner middleware are invisible
// out here, so the principal travels through a mutable carrier seeded
// into the context for RequireAuth to fill in, the way the wrapped
// response writer carries the status back.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		carrier := &auth.Principal{}
		ctx := context.WithValue(r.Context(), principalCarrierKey, carrier)

		next.ServeHTTP(ww, r.WithContext(ctx))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"user_id", carrier.ID,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case ww.Status() >= 500:
			slog.Error("Request failed", attrs...)
		case ww.Status() >= 400:
			slog.Warn("Request rejected", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	})
}
