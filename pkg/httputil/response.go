package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Code       string            `json:"code,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	TracerID   string            `json:"tracerId,omitempty"`
}

// MessageResponse is a body carrying only a human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a MessageResponse.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteError maps err to an HTTP status and writes an ErrorResponse. Server
// side failures are logged with the request-scoped logger when the
// RequestLogger middleware is mounted, otherwise with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	body := ErrorResponse{TracerID: logger.TracerIDFromContext(r.Context())}

	var (
		appErr *apperrors.AppError
		valErr *validator.ValidationError
		decErr *validator.DecodeError
	)
	switch {
	case errors.As(err, &valErr):
		body.StatusCode = http.StatusBadRequest
		body.Code = "VALIDATION_ERROR"
		body.Message = "request validation failed"
		body.Fields = valErr.Fields()
	case errors.As(err, &decErr):
		body.StatusCode = http.StatusBadRequest
		body.Code = "INVALID_INPUT"
		body.Message = decErr.Error()
	case errors.As(err, &appErr):
		body.StatusCode = appErr.Status
		body.Code = appErr.Code
		body.Message = appErr.Message
	default:
		body.StatusCode = apperrors.HTTPStatus(err)
		body.Code, body.Message = sentinelCode(err)
	}
	body.Error = http.StatusText(body.StatusCode)

	if body.StatusCode >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("tracer_id", body.TracerID),
		)
	}

	WriteJSON(w, body.StatusCode, body)
}

func sentinelCode(err error) (string, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return "ALREADY_EXISTS", "resource already exists"
	case errors.Is(err, apperrors.ErrConflict):
		return "CONFLICT", "conflict"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		return "FORBIDDEN", "forbidden"
	default:
		return "INTERNAL_ERROR", "an internal error occurred"
	}
}
