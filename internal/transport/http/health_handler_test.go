package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careimport/internal/infrastructure"
)

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(infrastructure.NewTestLogger(io.Discard), "1.2.3")

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "1.2.3", payload["version"])
	assert.NotEmpty(t, payload["uptime"])
}
