package http

import (
	"mime"
	"net/http"

	"github.com/uditmishra03/carthub/pkg/httputil"
)

// ContentTypeJSON rejects request bodies that declare a media type other than
// application/json. Requests without a Content-Type header pass through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mt, _, err := mime.ParseMediaType(ct)
			if err != nil || mt != "application/json" {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, Envelope{
					Error: "Content-Type must be application/json",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
