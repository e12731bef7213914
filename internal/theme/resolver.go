package theme

import (
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/escuadron-404/sitio/internal/logfields"
)

// CookieName is the HTTP cookie carrying the persisted theme preference.
// The client-side durable key uses the same name so server rendering and
// hydration agree without a visible swap.
const CookieName = "app-theme"

const cookieMaxAge = 365 * 24 * 60 * 60

// PreferenceCookie builds the theme preference cookie written back on
// every render and on every committed switch.
func PreferenceCookie(id ID) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(id),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
}

// Resolver picks and loads the theme for one server-side render. The
// render never proceeds without a bundle, so Resolve either returns a
// loaded bundle or a fatal error.
type Resolver struct {
	reg  *Registry
	pick func(n int) int // injectable for deterministic tests
}

// NewResolver creates a resolver over the given registry.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg, pick: rand.IntN}
}

// Resolve selects a theme id from the persisted preference if it is
// registered, otherwise uniformly at random, then loads its bundle.
// A load failure for the selected id falls back to the default theme;
// a default-theme failure is returned as a fatal condition.
func (r *Resolver) Resolve(persisted string) (ID, *Bundle, error) {
	infos := r.reg.List()
	if len(infos) == 0 {
		return "", nil, &UnknownThemeError{ID: ID(persisted)}
	}

	var selected ID
	if persisted != "" && r.reg.Has(ID(persisted)) {
		selected = ID(persisted)
	} else {
		if persisted != "" {
			slog.Warn("ignoring unregistered theme preference", logfields.Theme(persisted))
		}
		selected = infos[r.pick(len(infos))].ID
	}

	bundle, err := r.reg.Load(selected)
	if err == nil {
		return selected, bundle, nil
	}

	fallback := r.reg.DefaultID()
	slog.Warn("theme bundle load failed, falling back to default",
		logfields.Theme(string(selected)),
		slog.String("fallback", string(fallback)),
		logfields.Error(err))
	bundle, err = r.reg.Load(fallback)
	if err != nil {
		// Default theme unloadable: fatal startup condition, surfaced.
		return "", nil, err
	}
	return fallback, bundle, nil
}
