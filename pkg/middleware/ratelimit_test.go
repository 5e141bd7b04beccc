package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	var buf bytes.Buffer
	store := newVisitorStore(0.001, 2, time.Minute)
	h := rateLimit(store, newTestLogger(&buf))(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Contains(t, buf.String(), "rate limit exceeded")
}

func TestRateLimit_SeparateBucketsPerIP(t *testing.T) {
	var buf bytes.Buffer
	store := newVisitorStore(0.001, 1, time.Minute)
	h := rateLimit(store, newTestLogger(&buf))(http.HandlerFunc(okHandler))

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, store.len())
}

func TestVisitorStore_CleanupEvictsIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newVisitorStore(1, 1, time.Minute)
	store.nowFunc = func() time.Time { return now }

	store.get("1.1.1.1")
	now = now.Add(30 * time.Second)
	store.get("2.2.2.2")
	now = now.Add(45 * time.Second)
	store.cleanup()

	assert.Equal(t, 1, store.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		want   string
	}{
		{"forwarded chain", "203.0.113.9, 10.0.0.1", "", "10.0.0.2:80", "203.0.113.9"},
		{"forwarded garbage falls back", "unknown", "", "10.0.0.2:80", "10.0.0.2"},
		{"real ip", "", "198.51.100.7", "10.0.0.2:80", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
