package theme

import (
	"bytes"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escuadron-404/sitio/internal/content"
)

const minimalBundle = `{{define "layout"}}<html data-theme="{{.ThemeID}}">{{template "navbar" .}}{{template "hero" .}}{{template "about" .}}{{template "projects" .}}{{template "testimonials" .}}{{template "contact" .}}{{template "footer" .}}</html>{{end}}
{{define "navbar"}}nav{{end}}
{{define "hero"}}{{.Snapshot.Hero.Title}}{{end}}
{{define "about"}}about{{end}}
{{define "projects"}}projects{{end}}
{{define "testimonials"}}{{range .Snapshot.Testimonials.Testimonials}}{{range seq .Rating}}*{{end}}{{end}}{{end}}
{{define "contact"}}contact{{end}}
{{define "footer"}}footer{{end}}`

func testSnapshot() *content.Snapshot {
	return &content.Snapshot{
		Locale: "es",
		Hero:   content.Hero{Title: "Escuadrón 404"},
		Testimonials: content.TestimonialSection{
			Testimonials: []content.TestimonialCard{{Quote: "q", Rating: 3}},
		},
	}
}

func TestParseBundle(t *testing.T) {
	t.Run("accepts a bundle with all slots", func(t *testing.T) {
		b, err := ParseBundle("test", minimalBundle)
		require.NoError(t, err)
		for _, slot := range RequiredSlots {
			assert.True(t, b.HasSlot(slot), "missing slot %s", slot)
		}
	})

	t.Run("rejects a bundle missing a slot", func(t *testing.T) {
		text := strings.ReplaceAll(minimalBundle, `{{define "footer"}}footer{{end}}`, "")
		_, err := ParseBundle("broken", text)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "footer")
	})

	t.Run("rejects invalid template text", func(t *testing.T) {
		_, err := ParseBundle("broken", "{{define }}")
		require.Error(t, err)
	})
}

func TestBundleRenderPage(t *testing.T) {
	b, err := ParseBundle("test", minimalBundle)
	require.NoError(t, err)

	var buf bytes.Buffer
	data := &PageData{ThemeID: "test", Snapshot: testSnapshot()}
	require.NoError(t, b.RenderPage(&buf, data))

	out := buf.String()
	assert.Contains(t, out, `data-theme="test"`)
	assert.Contains(t, out, "Escuadrón 404")
	assert.Contains(t, out, "***", "seq should expand the rating")
}

func testDefinition(id ID, name string) Definition {
	return Definition{
		Info: Info{ID: id, DisplayName: name},
		Load: func() (*Bundle, error) { return ParseBundle(id, minimalBundle) },
	}
}

func TestRegistry(t *testing.T) {
	t.Run("lists themes in registration order", func(t *testing.T) {
		r := NewRegistry()
		r.Register(testDefinition("a", "A"))
		r.Register(testDefinition("b", "B"))

		infos := r.List()
		require.Len(t, infos, 2)
		assert.Equal(t, ID("a"), infos[0].ID)
		assert.Equal(t, ID("b"), infos[1].ID)
		assert.Equal(t, ID("a"), r.DefaultID())
	})

	t.Run("ignores duplicate registrations", func(t *testing.T) {
		r := NewRegistry()
		r.Register(testDefinition("a", "first"))
		r.Register(testDefinition("a", "second"))

		infos := r.List()
		require.Len(t, infos, 1)
		assert.Equal(t, "first", infos[0].DisplayName)
	})

	t.Run("ignores incomplete definitions", func(t *testing.T) {
		r := NewRegistry()
		r.Register(Definition{Info: Info{ID: "noload"}})
		r.Register(Definition{Load: func() (*Bundle, error) { return nil, nil }})
		assert.Empty(t, r.List())
		assert.Equal(t, ID(""), r.DefaultID())
	})

	t.Run("unknown id yields UnknownThemeError", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Load("ghost")
		var unknownErr *UnknownThemeError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, ID("ghost"), unknownErr.ID)
	})

	t.Run("load builds the bundle once", func(t *testing.T) {
		var calls atomic.Int32
		r := NewRegistry()
		r.Register(Definition{
			Info: Info{ID: "a", DisplayName: "A"},
			Load: func() (*Bundle, error) {
				calls.Add(1)
				return ParseBundle("a", minimalBundle)
			},
		})

		first, err := r.Load("a")
		require.NoError(t, err)
		second, err := r.Load("a")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("load failure is not cached", func(t *testing.T) {
		var calls atomic.Int32
		r := NewRegistry()
		r.Register(Definition{
			Info: Info{ID: "flaky", DisplayName: "Flaky"},
			Load: func() (*Bundle, error) {
				if calls.Add(1) == 1 {
					return nil, fmt.Errorf("transient")
				}
				return ParseBundle("flaky", minimalBundle)
			},
		})

		_, err := r.Load("flaky")
		require.Error(t, err)
		b, err := r.Load("flaky")
		require.NoError(t, err)
		assert.NotNil(t, b)
	})
}
