package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestParseResponseError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		contains string
	}{
		{"structured bad request", http.StatusBadRequest, `{"statusCode":400,"message":"email is invalid"}`, apperrors.ErrInvalidInput, "email is invalid"},
		{"not found", http.StatusNotFound, `{"message":"no route"}`, apperrors.ErrNotFound, "no route"},
		{"conflict", http.StatusConflict, `dup`, apperrors.ErrConflict, "dup"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad signature"}`, apperrors.ErrUnauthorized, "bad signature"},
		{"forbidden", http.StatusForbidden, ``, apperrors.ErrForbidden, "mailer"},
		{"unprocessable", http.StatusUnprocessableEntity, `nope`, apperrors.ErrInvalidInput, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponseError(response(tt.status, tt.body), "mailer")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseResponseError_ServerErrorIsPlain(t *testing.T) {
	err := ParseResponseError(response(http.StatusBadGateway, "upstream gone"), "mailer")

	var appErr *apperrors.AppError
	assert.Error(t, err)
	assert.NotErrorAs(t, err, &appErr)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream gone")
}
