package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

func TestTracer_EchoesInboundHeader(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("test-svc", "info", &buf)

	var seen string
	h := Tracer(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.TracerIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(TracerHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(TracerHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc-123", line["tracer_id"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "/api/products", line["path"])
}

func TestTracer_GeneratesIDWhenAbsent(t *testing.T) {
	var buf bytes.Buffer
	h := Tracer(logger.NewWithWriter("test-svc", "info", &buf))(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(TracerHeader)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}
