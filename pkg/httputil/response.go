package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/uditmishra03/carthub/pkg/errors"
	"github.com/uditmishra03/carthub/pkg/logger"
)

// Caller-facing messages for failures that carry no safe detail of their own.
const (
	MsgInvalidBody = "Invalid request body"
	MsgNotFound    = "Resource not found"
	MsgInternal    = "Internal server error"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON unmarshals body into v. A field of the wrong JSON type is
// reported by name; any other decoding failure, including an empty body,
// becomes MsgInvalidBody. The returned error matches apperrors.ErrInvalidInput.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.InvalidInput("Invalid field: " + typeErr.Field)
		}
		return apperrors.InvalidInput(MsgInvalidBody)
	}
	return nil
}

// Classify maps err to an HTTP status and a message that is safe to show the
// caller. Server errors are logged with full detail and never echoed. The
// request-scoped logger from ctx is preferred over fallback.
func Classify(ctx context.Context, err error, fallback *slog.Logger) (int, string) {
	status := apperrors.HTTPStatus(err)
	message := MsgInternal

	var appErr *apperrors.AppError
	switch {
	case status >= http.StatusInternalServerError:
		logger.FromContext(ctx, fallback).ErrorContext(ctx, "internal error",
			slog.String("error", err.Error()),
		)
		return http.StatusInternalServerError, MsgInternal
	case errors.As(err, &appErr):
		message = appErr.Message
	case errors.Is(err, apperrors.ErrInvalidInput):
		message = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		message = MsgNotFound
	}

	return status, message
}
