package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uditmishra03/carthub/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, trace_id and span_id. Mount it after RequestLogging and
// Tracing so both values are already present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerFromURL records the chi URL parameter param as the request's
// customer ID and adds it to the request-scoped logger. It must be mounted on
// a route that declares the parameter.
func CustomerFromURL(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := logger.WithCustomerID(r.Context(), id)
			l := logger.FromContext(ctx, nil).With(slog.String("customer_id", id))
			ctx = logger.NewContext(ctx, l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
