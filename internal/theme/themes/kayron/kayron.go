// Package kayron is the bold, dark default theme.
package kayron

import (
	_ "embed"

	"github.com/escuadron-404/sitio/internal/theme"
)

//go:embed page.tmpl
var pageTemplate string

func init() {
	theme.Register(theme.Definition{
		Info: theme.Info{ID: "kayron", DisplayName: "Kayron"},
		Load: func() (*theme.Bundle, error) {
			return theme.ParseBundle("kayron", pageTemplate)
		},
	})
}
