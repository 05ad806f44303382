package recipients_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mem "carecircle/internal/adapters/storage/memory"
	"carecircle/internal/domain/circle"
	"carecircle/internal/domain/recipients"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// brokenRepo simula una base caída en los listados.
type brokenRepo struct {
	recipients.Repository
}

func (brokenRepo) ListByOwner(context.Context, string) ([]recipients.Recipient, error) {
	return nil, errors.New("postgres: list recipients: connection refused")
}

func TestListRecipients_LogsCauseOfInternalError(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New(logger.Options{
		Level:  logger.Debug,
		Format: logger.FormatJSON,
		Output: zapcore.AddSync(&buf),
	})

	svc := recipients.NewService(brokenRepo{mem.NewRecipientsRepo()})
	circleSvc := circle.NewService(mem.NewMembershipsRepo(), svc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.AuthContext(nil))
	r.Use(middleware.RequestLog(lg))
	recipients.RegisterRoutes(r, svc, circleSvc)

	req := httptest.NewRequest(http.MethodGet, "/recipients", nil)
	req.Header.Set("X-Debug-User-ID", "owner-1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	// la causa no se filtra al cliente
	assert.NotContains(t, rr.Body.String(), "connection refused")

	var found map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var line map[string]any
		require.NoError(t, json.Unmarshal(raw, &line))
		if line["msg"] == "internal error" {
			found = line
		}
	}
	require.NotNil(t, found, "no internal error line in %s", buf.String())
	assert.Equal(t, "error", found["level"])
	assert.Equal(t, "postgres: list recipients: connection refused", found["error"])
	assert.Equal(t, "/recipients", found["path"])
	assert.Equal(t, "owner-1", found["user_id"])
	assert.NotEmpty(t, found["request_id"])
}
