package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escuadron-404/sitio/internal/session"
)

func TestHandleHealthCheck(t *testing.T) {
	reg := testRegistry(t)
	h := NewMonitoringHandlers(reg, session.NewManager(reg))

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status   string `json:"status"`
		Themes   int    `json:"themes"`
		Sessions int    `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 2, resp.Themes)
	assert.Equal(t, 0, resp.Sessions)
}

func TestHandleHealthCheckMethod(t *testing.T) {
	reg := testRegistry(t)
	h := NewMonitoringHandlers(reg, session.NewManager(reg))

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
