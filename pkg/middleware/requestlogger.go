package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/logger"
)

// RequestLogger stores a request-scoped logger enriched with tracer_id,
// user_id, trace_id and span_id in the context. Handlers and services fetch it
// with logger.FromContext.
//
// Mount it after Tracer and Tracing. Auth adds user_id to the stored logger
// for authenticated routes.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID := UserIDFromContext(ctx); userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
