package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

// TracerHeader carries the per-request correlation id in both directions.
const TracerHeader = "tracer"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Tracer reads the tracer id from the request (generating one when absent),
// echoes it on the response and logs one line per request.
func Tracer(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			tracerID := r.Header.Get(TracerHeader)
			if tracerID == "" {
				tracerID = uuid.NewString()
			}

			ctx := logger.WithTracerID(r.Context(), tracerID)
			r = r.WithContext(ctx)
			w.Header().Set(TracerHeader, tracerID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			l.InfoContext(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", wrapped.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("tracer_id", tracerID),
			)
		})
	}
}
