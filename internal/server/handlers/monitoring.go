package handlers

import (
	"log/slog"
	"net/http"
	"time"

	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/logfields"
	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/theme"
)

// MonitoringHandlers contains the health check endpoint.
type MonitoringHandlers struct {
	registry     *theme.Registry
	sessions     *session.Manager
	startTime    time.Time
	errorAdapter *siteerr.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a monitoring handlers instance.
func NewMonitoringHandlers(registry *theme.Registry, sessions *session.Manager) *MonitoringHandlers {
	return &MonitoringHandlers{
		registry:     registry,
		sessions:     sessions,
		startTime:    time.Now(),
		errorAdapter: siteerr.NewHTTPErrorAdapter(slog.Default()),
	}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime_seconds"`
	Themes    int       `json:"themes"`
	Sessions  int       `json:"sessions"`
}

// HandleHealthCheck handles GET /healthz.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodGet))
		return
	}

	health := &healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Seconds(),
		Themes:    len(h.registry.List()),
		Sessions:  h.sessions.Len(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		slog.Error("failed writing health response", logfields.Error(err))
	}
}
