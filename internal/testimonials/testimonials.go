// Package testimonials loads the bundled testimonial records. Quotes are
// authored in markdown and rendered to HTML once at load time.
package testimonials

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"

	"github.com/escuadron-404/sitio/internal/content"
)

//go:embed testimonials.json
var bundled []byte

// record is the on-disk testimonial shape.
type record struct {
	Quote      string `json:"quote"`
	AuthorName string `json:"authorName"`
	AuthorRole string `json:"authorRole"`
	Rating     int    `json:"rating"`
}

// Source yields the testimonial cards for the aggregator.
type Source struct {
	path string // optional override; empty uses the bundled data
	md   goldmark.Markdown
}

// NewSource creates a source, optionally reading from an override path
// instead of the embedded resource.
func NewSource(path string) *Source {
	return &Source{path: path, md: goldmark.New()}
}

// Load parses the testimonial data. Parse failures are returned so the
// aggregator can capture them as a section-scoped error.
func (s *Source) Load() ([]content.TestimonialCard, error) {
	data := bundled
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read testimonials: %w", err)
		}
		data = b
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse testimonials: %w", err)
	}

	cards := make([]content.TestimonialCard, 0, len(records))
	for i, r := range records {
		quote, err := s.renderQuote(r.Quote)
		if err != nil {
			return nil, fmt.Errorf("render testimonial %d: %w", i, err)
		}
		cards = append(cards, content.TestimonialCard{
			Quote:      quote,
			AuthorName: r.AuthorName,
			AuthorRole: r.AuthorRole,
			Rating:     clampRating(r.Rating),
		})
	}
	return cards, nil
}

func (s *Source) renderQuote(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // bundled content, not user input
}

func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
