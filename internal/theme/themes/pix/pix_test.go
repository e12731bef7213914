package pix

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escuadron-404/sitio/internal/content"
	"github.com/escuadron-404/sitio/internal/theme"
)

func TestRegistersWithDefaultRegistry(t *testing.T) {
	assert.True(t, theme.Default.Has("pix"))
	for _, info := range theme.Default.List() {
		if info.ID == "pix" {
			assert.Equal(t, "Clean Code", info.DisplayName)
			return
		}
	}
	t.Fatal("pix not listed")
}

func TestBundleRendersFullPage(t *testing.T) {
	bundle, err := theme.Default.Load("pix")
	require.NoError(t, err)
	for _, slot := range theme.RequiredSlots {
		assert.True(t, bundle.HasSlot(slot), "missing slot %s", slot)
	}

	data := &theme.PageData{
		ThemeID:          "pix",
		Themes:           theme.Default.List(),
		Locales:          []string{"es", "en"},
		Year:             2026,
		TurnstileSiteKey: "0x4AAAAAAA",
		Snapshot: &content.Snapshot{
			Locale: "en",
			Brand:  content.Brand{Name: "Escuadrón 404", Tagline: "debug together"},
			Hero:   content.Hero{Title: "Escuadrón 404", CTAText: "Join", CTALink: "https://discord.gg/x"},
			Projects: content.ProjectsSection{
				Projects: []content.ProjectCard{
					{Title: "sitio", Description: "web", Tags: []string{"go", "web"}, ProjectLink: "https://github.com/x"},
				},
			},
			Testimonials: content.TestimonialSection{
				Testimonials: []content.TestimonialCard{{Quote: "solid", AuthorName: "Luis", AuthorRole: "Dev", Rating: 5}},
			},
			Contact: content.ContactForm{
				Fields: []content.ContactFormField{
					{Name: "email", Label: "Email", Type: "email", Required: true},
				},
			},
			Footer: content.Footer{BrandName: "Escuadrón 404"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, bundle.RenderPage(&buf, data))
	out := buf.String()

	assert.Contains(t, out, `data-theme="pix"`)
	assert.Contains(t, out, "/static/pix.css")
	assert.Contains(t, out, "#go #web", "topics rendered as hashtags")
	assert.Contains(t, out, "*****", "five asterisks for rating 5")
	assert.Contains(t, out, `type="email"`)
	assert.Contains(t, out, `class="cf-turnstile" data-sitekey="0x4AAAAAAA"`)
	assert.Contains(t, out, "https://challenges.cloudflare.com/turnstile/v0/api.js")
	assert.NotContains(t, out, "/static/dev.js")
}

func TestBundleEmptyProjects(t *testing.T) {
	bundle, err := theme.Default.Load("pix")
	require.NoError(t, err)

	data := &theme.PageData{
		ThemeID: "pix",
		Snapshot: &content.Snapshot{
			Projects: content.ProjectsSection{
				Empty:    "No projects published yet. Check back soon!",
				Projects: []content.ProjectCard{},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, bundle.RenderPage(&buf, data))
	assert.Contains(t, buf.String(), "No projects published yet. Check back soon!")
}
