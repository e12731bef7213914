package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/escuadron-404/sitio/internal/content"
	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/i18n"
	"github.com/escuadron-404/sitio/internal/logfields"
	"github.com/escuadron-404/sitio/internal/metrics"
	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/theme"
)

// PageHandlers renders the localized, themed landing page.
type PageHandlers struct {
	resolver     *theme.Resolver
	registry     *theme.Registry
	sessions     *session.Manager
	aggregator   *content.Aggregator
	dicts        *i18n.Store
	persist      theme.Persister
	dev          bool
	siteKey      string
	rec          metrics.Recorder
	errorAdapter *siteerr.HTTPErrorAdapter
	now          func() time.Time
}

// NewPageHandlers creates the page handlers. siteKey is the Turnstile site
// key rendered into the contact form widget; empty disables the widget.
func NewPageHandlers(resolver *theme.Resolver, registry *theme.Registry, sessions *session.Manager,
	aggregator *content.Aggregator, dicts *i18n.Store, persist theme.Persister, dev bool,
	siteKey string, rec metrics.Recorder) *PageHandlers {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &PageHandlers{
		resolver:     resolver,
		registry:     registry,
		sessions:     sessions,
		aggregator:   aggregator,
		dicts:        dicts,
		persist:      persist,
		dev:          dev,
		siteKey:      siteKey,
		rec:          rec,
		errorAdapter: siteerr.NewHTTPErrorAdapter(slog.Default()),
		now:          time.Now,
	}
}

// HandleIndex redirects the bare root to the visitor's preferred locale.
func (h *PageHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodGet))
		return
	}
	locale := i18n.DefaultLocale
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(tags) > 0 {
		locale = h.dicts.Resolve(tags[0].String())
	}
	http.Redirect(w, r, "/"+locale, http.StatusFound)
}

// HandlePage renders /{locale}. The theme comes from the preference cookie
// when valid, otherwise a uniformly random registered theme, and the choice
// is persisted back so subsequent renders are stable.
func (h *PageHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodGet))
		return
	}
	locale := strings.Trim(r.URL.Path, "/")
	if !slices.Contains(i18n.SupportedLocales, locale) {
		http.NotFound(w, r)
		return
	}

	persisted := ""
	if c, err := r.Cookie(theme.CookieName); err == nil {
		persisted = c.Value
	}
	resolvedID, bundle, err := h.resolver.Resolve(persisted)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, siteerr.ThemeLoadFailed(persisted, err))
		return
	}

	sid, newSession := h.sessionID(r)
	themeCtx := h.sessions.Context(sid, resolvedID, bundle, h.persist)
	currentID := themeCtx.CurrentTheme()
	currentBundle := themeCtx.Bundle()
	if currentID != resolvedID {
		h.rec.IncThemeFallback()
	}

	start := h.now()
	snap := h.aggregator.Snapshot(r.Context(), locale)
	if snap.Projects.Error != "" {
		h.rec.IncSectionError("projects")
	}
	if snap.Testimonials.Error != "" {
		h.rec.IncSectionError("testimonials")
	}

	data := &theme.PageData{
		ThemeID:          currentID,
		Themes:           h.registry.List(),
		Locales:          i18n.SupportedLocales,
		Dev:              h.dev,
		Year:             h.now().Year(),
		TurnstileSiteKey: h.siteKey,
		Snapshot:         snap,
	}

	// Render into a buffer so a template failure never emits a partial page.
	var buf bytes.Buffer
	if err := currentBundle.RenderPage(&buf, data); err != nil {
		h.errorAdapter.WriteErrorResponse(w, siteerr.RenderFailed(theme.SlotLayout, err))
		return
	}
	h.rec.ObserveRenderDuration(string(currentID), locale, h.now().Sub(start))

	http.SetCookie(w, theme.PreferenceCookie(currentID))
	if newSession {
		http.SetCookie(w, session.SessionCookie(sid))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed writing page response", logfields.Error(err))
	}
	slog.Debug("page rendered",
		logfields.Theme(string(currentID)),
		logfields.Locale(locale))
}

// sessionID returns the request's session id, minting one when absent.
func (h *PageHandlers) sessionID(r *http.Request) (id string, created bool) {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value, false
	}
	return session.NewID(), true
}

func methodNotAllowed(got, want string) *siteerr.SiteError {
	return siteerr.ValidationFailed("invalid HTTP method").
		WithContext("method", got).
		WithContext("allowed_method", want)
}
