// Package theme provides the theme registry and the runtime
// theme-switching machinery. A theme is a complete, interchangeable set of
// UI-slot templates sharing one prop contract; application code never
// branches on which theme is active, only the registry indirection knows.
package theme

import (
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/escuadron-404/sitio/internal/content"
)

// ID is an opaque theme identifier drawn from the registered set.
type ID string

// Info describes one registered theme for switcher UIs.
type Info struct {
	ID          ID     `json:"id"`
	DisplayName string `json:"name"`
}

// Slot names every bundle must define. The layout slot is the entry point
// and invokes the others.
const (
	SlotLayout       = "layout"
	SlotNavbar       = "navbar"
	SlotHero         = "hero"
	SlotAbout        = "about"
	SlotProjects     = "projects"
	SlotTestimonials = "testimonials"
	SlotContact      = "contact"
	SlotFooter       = "footer"
)

// RequiredSlots is the fixed component contract.
var RequiredSlots = []string{
	SlotLayout,
	SlotNavbar,
	SlotHero,
	SlotAbout,
	SlotProjects,
	SlotTestimonials,
	SlotContact,
	SlotFooter,
}

// PageData is the input every slot template receives. All themes render
// from the same shape; swapping themes never requires changing it.
type PageData struct {
	ThemeID ID
	Themes  []Info
	Locales []string
	Dev     bool
	Year    int
	// TurnstileSiteKey renders the bot-check widget in the contact form.
	// Empty (or dev mode, which substitutes the bypass sentinel) omits it.
	TurnstileSiteKey string
	Snapshot         *content.Snapshot
}

// Bundle is the loaded template set for one theme id.
type Bundle struct {
	id  ID
	tpl *template.Template
}

// ID returns the theme id this bundle was loaded for.
func (b *Bundle) ID() ID { return b.id }

// RenderPage executes the layout slot, which pulls in the remaining slots.
func (b *Bundle) RenderPage(w io.Writer, data *PageData) error {
	return b.tpl.ExecuteTemplate(w, SlotLayout, data)
}

// HasSlot reports whether the bundle defines the named slot template.
func (b *Bundle) HasSlot(name string) bool {
	return b.tpl.Lookup(name) != nil
}

// slotFuncs are shared helpers available to every theme template.
var slotFuncs = template.FuncMap{
	// seq yields 1..n, used for star ratings.
	"seq": func(n int) []int {
		out := make([]int, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, i)
		}
		return out
	},
}

// ParseBundle parses template text into a Bundle and enforces the slot
// contract: every required slot must be defined.
func ParseBundle(id ID, text string) (*Bundle, error) {
	tpl, err := template.New(string(id)).Funcs(slotFuncs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", id, err)
	}
	for _, slot := range RequiredSlots {
		if tpl.Lookup(slot) == nil {
			return nil, fmt.Errorf("theme %s missing slot template %q", id, slot)
		}
	}
	return &Bundle{id: id, tpl: tpl}, nil
}

// UnknownThemeError reports a load for an id that is not registered.
// Callers fall back to the default theme rather than surfacing this.
type UnknownThemeError struct {
	ID ID
}

func (e *UnknownThemeError) Error() string {
	return fmt.Sprintf("unknown theme: %s", e.ID)
}

// Definition pairs the theme metadata with its lazy bundle loader.
type Definition struct {
	Info Info
	Load func() (*Bundle, error)
}

// Registry holds the closed set of available themes in registration order.
// The first registered theme is the default/fallback.
type Registry struct {
	mu    sync.RWMutex
	order []ID
	defs  map[ID]Definition
	cache map[ID]*Bundle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:  make(map[ID]Definition),
		cache: make(map[ID]*Bundle),
	}
}

// Register adds a theme definition. Duplicate ids are ignored.
func (r *Registry) Register(def Definition) {
	if def.Info.ID == "" || def.Load == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Info.ID]; exists {
		return
	}
	r.defs[def.Info.ID] = def
	r.order = append(r.order, def.Info.ID)
}

// List returns the registered themes in registration order.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, r.defs[id].Info)
	}
	return infos
}

// DefaultID returns the first registered theme id, or "" for an empty
// registry.
func (r *Registry) DefaultID() ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

// Has reports whether an id is registered.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[id]
	return ok
}

// Load resolves a theme id to its bundle, building it on first use.
// Unregistered ids yield *UnknownThemeError.
func (r *Registry) Load(id ID) (*Bundle, error) {
	r.mu.RLock()
	def, ok := r.defs[id]
	cached := r.cache[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownThemeError{ID: id}
	}
	if cached != nil {
		return cached, nil
	}

	b, err := def.Load()
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	// Another loader may have won the race; keep the first bundle so
	// callers always observe one instance per id.
	if existing := r.cache[id]; existing != nil {
		b = existing
	} else {
		r.cache[id] = b
	}
	r.mu.Unlock()
	return b, nil
}

// Default is the process-wide registry populated by theme packages' init().
var Default = NewRegistry()

// Register adds a theme definition to the default registry.
func Register(def Definition) { Default.Register(def) }
