package theme

import (
	"log/slog"
	"sync"

	"github.com/escuadron-404/sitio/internal/logfields"
)

// Persister receives the committed theme id on every successful
// transition. Implementations persist the durable preference key, the
// cookie value, and the data-theme marker together; the call happens
// synchronously with the state update so the three side effects occur
// together or not at all.
type Persister interface {
	PersistTheme(id ID)
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(id ID)

func (f PersisterFunc) PersistTheme(id ID) { f(id) }

// Context is the theme-switching state machine for one browsing session.
// It holds the active theme id and loaded bundle, and transitions through
// Stable -> Transitioning -> Stable on SetTheme. The displayed bundle
// never changes until the replacement has fully loaded, and a later
// SetTheme supersedes an in-flight one: the stale load's result is
// discarded via a generation check before commit.
type Context struct {
	mu            sync.Mutex
	reg           *Registry
	persist       Persister
	current       ID
	bundle        *Bundle
	transitioning bool
	gen           uint64
	done          bool

	// loadFn is the bundle loader; tests substitute blocking loaders to
	// exercise transition interleavings.
	loadFn func(ID) (*Bundle, error)
}

// NewContext seeds a context from the server-resolved theme so hydration
// starts Stable on the same bundle the server rendered.
func NewContext(reg *Registry, initial ID, bundle *Bundle, persist Persister) *Context {
	return &Context{
		reg:     reg,
		persist: persist,
		current: initial,
		bundle:  bundle,
		loadFn:  reg.Load,
	}
}

// CurrentTheme returns the active theme id.
func (c *Context) CurrentTheme() ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// IsTransitioning reports whether a bundle load is in flight.
func (c *Context) IsTransitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitioning
}

// Bundle returns the currently displayed bundle. During a transition this
// is still the old bundle; no partial-bundle state is ever observable.
func (c *Context) Bundle() *Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bundle
}

// SetTheme starts an asynchronous transition to the named theme. It is a
// no-op when the id is not registered or equals the current id. The
// context stays usable against the old bundle while the load runs.
func (c *Context) SetTheme(id ID) {
	gen, ok := c.begin(id)
	if !ok {
		return
	}
	go c.finish(gen, id)
}

// Switch performs a transition synchronously and returns the resulting
// state. HTTP handlers use this so the response carries the committed
// theme; the last-writer-wins rule still applies if SetTheme races.
func (c *Context) Switch(id ID) (ID, *Bundle) {
	if gen, ok := c.begin(id); ok {
		c.finish(gen, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.bundle
}

// Teardown invalidates the context. In-flight loads are discarded and no
// further persistence occurs.
func (c *Context) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
	c.gen++
	c.transitioning = false
}

func (c *Context) begin(id ID) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return 0, false
	}
	if !c.reg.Has(id) {
		slog.Warn("attempted to set unknown theme", logfields.Theme(string(id)))
		return 0, false
	}
	if id == c.current && !c.transitioning {
		return 0, false
	}
	c.gen++
	c.transitioning = true
	return c.gen, true
}

func (c *Context) finish(gen uint64, id ID) {
	bundle, err := c.loadFn(id)
	if err != nil {
		slog.Warn("theme load failed during transition, falling back",
			logfields.Theme(string(id)), logfields.Error(err))
		fallback := c.reg.DefaultID()
		fb, ferr := c.loadFn(fallback)
		if ferr != nil {
			// Keep displaying the old bundle; the session stays Stable.
			c.abort(gen)
			return
		}
		c.commit(gen, fallback, fb)
		return
	}
	c.commit(gen, id, bundle)
}

func (c *Context) commit(gen uint64, id ID, bundle *Bundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done || gen != c.gen {
		// A newer SetTheme won; discard this result.
		return
	}
	c.current = id
	c.bundle = bundle
	c.transitioning = false
	if c.persist != nil {
		c.persist.PersistTheme(id)
	}
}

func (c *Context) abort(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done || gen != c.gen {
		return
	}
	c.transitioning = false
}
