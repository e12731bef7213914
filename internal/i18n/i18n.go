// Package i18n provides the localized copy dictionaries for the two
// supported locales. Unknown locale tags fall back to the default rather
// than failing.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used whenever a requested locale is unknown.
const DefaultLocale = "es"

// SupportedLocales lists the closed set of locale tags, default first.
var SupportedLocales = []string{"es", "en"}

// Dictionary holds all user-facing copy for one locale, keyed by section.
type Dictionary struct {
	Brand struct {
		Name          string `json:"name"`
		Tagline       string `json:"tagline"`
		FooterTagline string `json:"footerTagline"`
		Copyright     string `json:"copyright"` // contains {year} and {brandName} placeholders
	} `json:"brand"`
	Nav struct {
		Home         string `json:"home"`
		About        string `json:"about"`
		Projects     string `json:"projects"`
		Testimonials string `json:"testimonials"`
		Contact      string `json:"contact"`
	} `json:"nav"`
	Hero struct {
		Subtitle string `json:"subtitle"`
		CTAText  string `json:"ctaText"`
	} `json:"hero"`
	About struct {
		Heading    string `json:"heading"`
		Subheading string `json:"subheading"`
		Features   struct {
			Collaborative FeatureCopy `json:"collaborative"`
			Mentoring     FeatureCopy `json:"mentoring"`
			Events        FeatureCopy `json:"events"`
		} `json:"features"`
	} `json:"about"`
	Projects struct {
		Heading    string `json:"heading"`
		Subheading string `json:"subheading"`
		Empty      string `json:"empty"`
	} `json:"projects"`
	Testimonials struct {
		Heading string `json:"heading"`
	} `json:"testimonials"`
	ContactForm struct {
		Heading    string `json:"heading"`
		Subheading string `json:"subheading"`
		Fields     struct {
			Name    FieldCopy `json:"name"`
			Email   FieldCopy `json:"email"`
			Subject FieldCopy `json:"subject"`
			Message FieldCopy `json:"message"`
		} `json:"fields"`
		SubmitButton   string `json:"submitButton"`
		SuccessMessage string `json:"successMessage"`
		ErrorMessage   string `json:"errorMessage"`
	} `json:"contactForm"`
}

// FeatureCopy is the title/description pair for one feature card.
type FeatureCopy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FieldCopy is the label/placeholder pair for one form field.
type FieldCopy struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// Store holds the parsed dictionaries. All dictionaries are parsed once at
// construction so per-request lookups never touch the filesystem.
type Store struct {
	dicts   map[string]*Dictionary
	matcher language.Matcher
}

// NewStore parses the embedded locale files.
func NewStore() (*Store, error) {
	s := &Store{dicts: make(map[string]*Dictionary)}
	tags := make([]language.Tag, 0, len(SupportedLocales))
	for _, loc := range SupportedLocales {
		data, err := localeFS.ReadFile("locales/" + loc + ".json")
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", loc, err)
		}
		var d Dictionary
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", loc, err)
		}
		s.dicts[loc] = &d
		tags = append(tags, language.Make(loc))
	}
	s.matcher = language.NewMatcher(tags)
	return s, nil
}

// Resolve maps an arbitrary locale tag onto one of the supported locales.
// Unknown or malformed tags resolve to the default locale.
func (s *Store) Resolve(tag string) string {
	if _, ok := s.dicts[tag]; ok {
		return tag
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := s.matcher.Match(parsed)
	if conf == language.No {
		return DefaultLocale
	}
	return SupportedLocales[idx]
}

// Dictionary returns the dictionary for a locale tag, resolving unknown
// tags to the default locale.
func (s *Store) Dictionary(tag string) *Dictionary {
	return s.dicts[s.Resolve(tag)]
}
