package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestIPAllowlist(t *testing.T) {
	var buf bytes.Buffer
	mw := IPAllowlist([]string{"127.0.0.0/8", "not-a-cidr", "10.1.0.0/16"}, newTestLogger(&buf))
	h := mw(http.HandlerFunc(okHandler))

	tests := []struct {
		remote string
		want   int
	}{
		{"127.0.0.1:9000", http.StatusOK},
		{"10.1.2.3:80", http.StatusOK},
		{"192.168.1.1:80", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
		req.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, tt.remote)
	}
	assert.Contains(t, buf.String(), "invalid allowlist CIDR")
}

func TestRegisterPprof_ServesIndexForAllowedIP(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	RegisterPprof(r, []string{"127.0.0.1/32"}, newTestLogger(&buf))

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutine")
}
