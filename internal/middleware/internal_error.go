package middleware

import (
	"net/http"

	"carecircle/internal/platform/logger"
)

// InternalError loguea la causa con el logger del request (request_id incluido)
// y responde 500. Al cliente nunca le llega err.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	fields := map[string]any{
		"error":  err,
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if c, ok := GetClaims(r.Context()); ok {
		fields["user_id"] = c.UserID
	}
	logger.FromContext(r.Context()).Error("internal error", fields)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
