// Package pix is the clean, minimal "Clean Code" theme.
package pix

import (
	_ "embed"

	"github.com/escuadron-404/sitio/internal/theme"
)

//go:embed page.tmpl
var pageTemplate string

func init() {
	theme.Register(theme.Definition{
		Info: theme.Info{ID: "pix", DisplayName: "Clean Code"},
		Load: func() (*theme.Bundle, error) {
			return theme.ParseBundle("pix", pageTemplate)
		},
	})
}
