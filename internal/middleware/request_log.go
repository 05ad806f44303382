package middleware

import (
	"net/http"
	"time"

	"carecircle/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog registra una línea por request y deja lg en el contexto para
// InternalError. Va después de chimw.RequestID para poder incluir el request id.
func RequestLog(lg logger.Logger) func(http.Handler) http.Handler {
	if lg == nil {
		lg = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLg := lg.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLg)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  chimw.GetReqID(r.Context()),
			}
			if c, ok := GetClaims(r.Context()); ok {
				fields["user_id"] = c.UserID
			}

			switch {
			case status >= 500:
				lg.Error("http request", fields)
			case status >= 400:
				lg.Warn("http request", fields)
			default:
				lg.Info("http request", fields)
			}
		})
	}
}
