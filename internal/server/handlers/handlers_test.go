package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/escuadron-404/sitio/internal/config"
	"github.com/escuadron-404/sitio/internal/content"
	"github.com/escuadron-404/sitio/internal/i18n"
	"github.com/escuadron-404/sitio/internal/session"
	"github.com/escuadron-404/sitio/internal/theme"
)

// Shared fixtures for the handler tests.

const testBundleText = `{{define "layout"}}<html data-theme="{{.ThemeID}}"><body>{{template "navbar" .}}{{template "hero" .}}{{template "about" .}}{{template "projects" .}}{{template "testimonials" .}}{{template "contact" .}}{{template "footer" .}}</body></html>{{end}}
{{define "navbar"}}{{.Snapshot.Brand.Name}}{{end}}
{{define "hero"}}{{.Snapshot.Hero.Title}}{{end}}
{{define "about"}}{{end}}
{{define "projects"}}{{.Snapshot.Projects.Error}}{{end}}
{{define "testimonials"}}{{end}}
{{define "contact"}}{{end}}
{{define "footer"}}{{end}}`

func testRegistry(t *testing.T) *theme.Registry {
	t.Helper()
	reg := theme.NewRegistry()
	for _, th := range []struct{ id, name string }{{"kayron", "Kayron"}, {"pix", "Clean Code"}} {
		id := theme.ID(th.id)
		reg.Register(theme.Definition{
			Info: theme.Info{ID: id, DisplayName: th.name},
			Load: func() (*theme.Bundle, error) { return theme.ParseBundle(id, testBundleText) },
		})
	}
	return reg
}

type stubLister struct {
	projects []content.ProjectCard
	err      error
}

func (s *stubLister) ListProjects(context.Context) ([]content.ProjectCard, error) {
	return s.projects, s.err
}

type stubLoader struct {
	cards []content.TestimonialCard
	err   error
}

func (s *stubLoader) Load() ([]content.TestimonialCard, error) {
	return s.cards, s.err
}

func testAggregator(t *testing.T, lister content.ProjectLister) *content.Aggregator {
	t.Helper()
	dicts, err := i18n.NewStore()
	require.NoError(t, err)
	return content.New(dicts, lister, &stubLoader{}, config.SiteConfig{
		DiscordURL: "https://discord.gg/escuadron",
		GitHubURL:  "https://github.com/escuadron-404/",
	})
}

func testPageHandlers(t *testing.T, reg *theme.Registry, lister content.ProjectLister) (*PageHandlers, *session.Manager) {
	t.Helper()
	dicts, err := i18n.NewStore()
	require.NoError(t, err)
	sessions := session.NewManager(reg)
	h := NewPageHandlers(theme.NewResolver(reg), reg, sessions,
		testAggregator(t, lister), dicts, nil, false, "", nil)
	return h, sessions
}

var errUpstream = fmt.Errorf("github down")
