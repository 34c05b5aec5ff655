package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/uditmishra03/carthub/pkg/httputil"
	"github.com/uditmishra03/carthub/pkg/logger"
)

// Recovery turns a panic in a downstream handler into a 500 response in the
// standard failure envelope. The panic value and stack are logged only.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContext(r.Context(), l).ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				httputil.WriteJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   httputil.MsgInternal,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
