package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/logfields"
	"github.com/escuadron-404/sitio/internal/metrics"
	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/theme"
)

// ThemeHandlers serves the theme switcher API.
type ThemeHandlers struct {
	registry     *theme.Registry
	resolver     *theme.Resolver
	sessions     *session.Manager
	persist      theme.Persister
	rec          metrics.Recorder
	errorAdapter *siteerr.HTTPErrorAdapter
}

// NewThemeHandlers creates the theme handlers.
func NewThemeHandlers(registry *theme.Registry, resolver *theme.Resolver, sessions *session.Manager,
	persist theme.Persister, rec metrics.Recorder) *ThemeHandlers {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &ThemeHandlers{
		registry:     registry,
		resolver:     resolver,
		sessions:     sessions,
		persist:      persist,
		rec:          rec,
		errorAdapter: siteerr.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleList handles GET /api/themes: the registered theme infos in
// registration order, for switcher UIs.
func (h *ThemeHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodGet))
		return
	}
	if err := writeJSON(w, http.StatusOK, h.registry.List()); err != nil {
		slog.Error("failed writing theme list", logfields.Error(err))
	}
}

type themeSwitchRequest struct {
	Theme string `json:"theme"`
}

type themeSwitchResponse struct {
	Theme theme.ID `json:"theme"`
}

// HandleSwitch handles POST /api/theme from both the no-JS form fallback
// (form-encoded, answered with a redirect) and fetch callers (JSON).
// The committed theme id is written back in the preference cookie; with
// concurrent switches in one session the last writer wins.
func (h *ThemeHandlers) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodPost))
		return
	}

	wantsJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	var requested string
	if wantsJSON {
		var req themeSwitchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.errorAdapter.WriteErrorResponse(w,
				siteerr.ValidationFailed("Invalid request body."))
			return
		}
		requested = req.Theme
	} else {
		requested = r.FormValue("theme")
	}

	if !h.registry.Has(theme.ID(requested)) {
		h.errorAdapter.WriteErrorResponse(w,
			siteerr.ValidationFailed("Unknown theme.").
				WithContext("theme", requested))
		return
	}

	// Seed the session context from the current cookie preference so a
	// fresh session switches away from what the visitor is looking at.
	persisted := ""
	if c, err := r.Cookie(theme.CookieName); err == nil {
		persisted = c.Value
	}
	seedID, seedBundle, err := h.resolver.Resolve(persisted)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, siteerr.ThemeLoadFailed(persisted, err))
		return
	}

	sid, newSession := h.requestSessionID(r)
	themeCtx := h.sessions.Context(sid, seedID, seedBundle, h.persist)
	committed, _ := themeCtx.Switch(theme.ID(requested))
	h.rec.IncThemeSwitch(string(committed))
	slog.Info("theme switched", logfields.Theme(string(committed)))

	http.SetCookie(w, theme.PreferenceCookie(committed))
	if newSession {
		http.SetCookie(w, session.SessionCookie(sid))
	}

	if wantsJSON {
		if err := writeJSON(w, http.StatusOK, themeSwitchResponse{Theme: committed}); err != nil {
			slog.Error("failed writing theme switch response", logfields.Error(err))
		}
		return
	}
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *ThemeHandlers) requestSessionID(r *http.Request) (id string, created bool) {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value, false
	}
	return session.NewID(), true
}
