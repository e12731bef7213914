package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreResolve(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	tests := []struct {
		name string
		tag  string
		want string
	}{
		{"exact supported locale", "es", "es"},
		{"other supported locale", "en", "en"},
		{"regional variant", "en-US", "en"},
		{"spanish variant", "es-MX", "es"},
		{"unsupported language", "fr", DefaultLocale},
		{"empty tag", "", DefaultLocale},
		{"garbage tag", "!!not-a-tag!!", DefaultLocale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Resolve(tt.tag))
		})
	}
}

func TestStoreDictionaries(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	for _, loc := range SupportedLocales {
		t.Run(loc, func(t *testing.T) {
			d := s.Dictionary(loc)
			require.NotNil(t, d)
			assert.Equal(t, "Escuadrón 404", d.Brand.Name)
			assert.NotEmpty(t, d.Brand.Tagline)
			assert.NotEmpty(t, d.Nav.Contact)
			assert.NotEmpty(t, d.Hero.Subtitle)
			assert.NotEmpty(t, d.About.Features.Collaborative.Title)
			assert.NotEmpty(t, d.About.Features.Mentoring.Title)
			assert.NotEmpty(t, d.About.Features.Events.Title)
			assert.NotEmpty(t, d.Projects.Heading)
			assert.NotEmpty(t, d.Testimonials.Heading)
			assert.NotEmpty(t, d.ContactForm.Fields.Email.Label)
			assert.NotEmpty(t, d.ContactForm.SubmitButton)
			assert.Contains(t, d.Brand.Copyright, "{year}")
		})
	}
}

func TestStoreDictionaryFallsBack(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)

	assert.Same(t, s.Dictionary(DefaultLocale), s.Dictionary("de"))
}
