// Package content assembles the per-request, read-only payload handed to
// themed components.
package content

import "html/template"

// NavLink is a single navigation entry.
type NavLink struct {
	Label string
	Href  string
}

// Brand holds the community identity strings.
type Brand struct {
	Name    string
	Tagline string
}

// Hero is the above-the-fold copy.
type Hero struct {
	Title    string
	Subtitle string
	CTAText  string
	CTALink  string
}

// FeatureCard is one entry in the about section. Icon is a symbolic name;
// icon assignment stays presentation-side so themes pick their own glyphs.
type FeatureCard struct {
	Icon        string
	Title       string
	Description string
}

// About is the heading plus feature cards.
type About struct {
	Heading    string
	Subheading string
	Features   []FeatureCard
}

// ProjectCard is one showcased repository.
type ProjectCard struct {
	Title       string
	Description string
	Tags        []string
	ProjectLink string
	DemoLink    string // empty when the project has no demo
}

// ProjectsSection carries the project cards plus a section-scoped error.
// An empty Projects slice with an empty Error is the distinct "no projects"
// state; Error set means the fetch failed and the section renders a banner.
type ProjectsSection struct {
	Heading    string
	Subheading string
	Empty      string // localized copy for the "no projects" state
	Projects   []ProjectCard
	Error      string
}

// TestimonialCard is one rendered testimonial. Quote is pre-rendered HTML
// (markdown-authored quotes pass through goldmark at load time).
type TestimonialCard struct {
	Quote      template.HTML
	AuthorName string
	AuthorRole string
	Rating     int // bounded 1..5
}

// TestimonialSection carries the testimonial cards plus a section-scoped error.
type TestimonialSection struct {
	Heading      string
	Testimonials []TestimonialCard
	Error        string
}

// ContactFormField describes one form input; themes render fields entirely
// from this data.
type ContactFormField struct {
	Name        string
	Label       string
	Type        string // "text", "email", "subject", "textarea"
	Required    bool
	Placeholder string
}

// ContactForm is the data-driven form description.
type ContactForm struct {
	Heading        string
	Subheading     string
	Fields         []ContactFormField
	SubmitText     string
	SuccessMessage string
	ErrorMessage   string
}

// SocialLink is one footer social entry. Icon is a symbolic name.
type SocialLink struct {
	Icon  string
	Label string
	Href  string
}

// Footer holds the footer copy and links.
type Footer struct {
	BrandName    string
	BrandTagline string
	Copyright    string
	SocialLinks  []SocialLink
}

// Snapshot is the immutable payload for one page render. Constructed fresh
// per request, never mutated afterwards.
type Snapshot struct {
	Locale       string
	Brand        Brand
	NavLinks     []NavLink
	Hero         Hero
	About        About
	Projects     ProjectsSection
	Testimonials TestimonialSection
	Contact      ContactForm
	Footer       Footer
}
