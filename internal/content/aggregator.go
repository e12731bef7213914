package content

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/escuadron-404/sitio/internal/config"
	"github.com/escuadron-404/sitio/internal/i18n"
	"github.com/escuadron-404/sitio/internal/logfields"
)

// Section error values shown inside an otherwise complete snapshot.
const (
	errProjectsFetch     = "Failed to fetch GitHub projects"
	errTestimonialsFetch = "Failed to load testimonials"
)

// ProjectLister fetches the showcased repositories.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]ProjectCard, error)
}

// TestimonialLoader reads the testimonial records.
type TestimonialLoader interface {
	Load() ([]TestimonialCard, error)
}

// Aggregator gathers localized copy, remote project metadata, and
// testimonial data, and assembles the prop bundles the themed components
// expect. Each fetch failure is normalized into a per-section error value;
// nothing here aborts a render.
type Aggregator struct {
	dicts        *i18n.Store
	projects     ProjectLister
	testimonials TestimonialLoader
	site         config.SiteConfig
	now          func() time.Time
}

// New creates an aggregator.
func New(dicts *i18n.Store, projects ProjectLister, testimonials TestimonialLoader, site config.SiteConfig) *Aggregator {
	return &Aggregator{
		dicts:        dicts,
		projects:     projects,
		testimonials: testimonials,
		site:         site,
		now:          time.Now,
	}
}

// Snapshot runs the three independent fetches concurrently, waits for all
// of them, and builds the complete payload for one render. The returned
// snapshot is complete even when a section carries an error.
func (a *Aggregator) Snapshot(ctx context.Context, locale string) *Snapshot {
	resolved := a.dicts.Resolve(locale)

	var (
		wg sync.WaitGroup

		dict *i18n.Dictionary

		projects    []ProjectCard
		projectsErr error

		cards    []TestimonialCard
		cardsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		dict = a.dicts.Dictionary(resolved)
	}()
	go func() {
		defer wg.Done()
		projects, projectsErr = a.projects.ListProjects(ctx)
	}()
	go func() {
		defer wg.Done()
		cards, cardsErr = a.testimonials.Load()
	}()
	wg.Wait()

	snap := &Snapshot{
		Locale: resolved,
		Brand: Brand{
			Name:    dict.Brand.Name,
			Tagline: dict.Brand.Tagline,
		},
		NavLinks: []NavLink{
			{Label: dict.Nav.Home, Href: "#hero"},
			{Label: dict.Nav.About, Href: "#about"},
			{Label: dict.Nav.Projects, Href: "#projects"},
			{Label: dict.Nav.Testimonials, Href: "#testimonials"},
			{Label: dict.Nav.Contact, Href: "#contact"},
		},
		Hero: Hero{
			Title:    dict.Brand.Name,
			Subtitle: dict.Hero.Subtitle,
			CTAText:  dict.Hero.CTAText,
			CTALink:  a.site.DiscordURL,
		},
		About: About{
			Heading:    dict.About.Heading,
			Subheading: dict.About.Subheading,
			Features: []FeatureCard{
				{Icon: "check", Title: dict.About.Features.Collaborative.Title, Description: dict.About.Features.Collaborative.Description},
				{Icon: "users", Title: dict.About.Features.Mentoring.Title, Description: dict.About.Features.Mentoring.Description},
				{Icon: "book", Title: dict.About.Features.Events.Title, Description: dict.About.Features.Events.Description},
			},
		},
		Projects: ProjectsSection{
			Heading:    dict.Projects.Heading,
			Subheading: dict.Projects.Subheading,
			Empty:      dict.Projects.Empty,
			Projects:   projects,
		},
		Testimonials: TestimonialSection{
			Heading:      dict.Testimonials.Heading,
			Testimonials: cards,
		},
		Contact: ContactForm{
			Heading:    dict.ContactForm.Heading,
			Subheading: dict.ContactForm.Subheading,
			Fields: []ContactFormField{
				{Name: "name", Label: dict.ContactForm.Fields.Name.Label, Type: "text", Required: true, Placeholder: dict.ContactForm.Fields.Name.Placeholder},
				{Name: "email", Label: dict.ContactForm.Fields.Email.Label, Type: "email", Required: true, Placeholder: dict.ContactForm.Fields.Email.Placeholder},
				{Name: "subject", Label: dict.ContactForm.Fields.Subject.Label, Type: "text", Required: true, Placeholder: dict.ContactForm.Fields.Subject.Placeholder},
				{Name: "message", Label: dict.ContactForm.Fields.Message.Label, Type: "textarea", Required: true, Placeholder: dict.ContactForm.Fields.Message.Placeholder},
			},
			SubmitText:     dict.ContactForm.SubmitButton,
			SuccessMessage: dict.ContactForm.SuccessMessage,
			ErrorMessage:   dict.ContactForm.ErrorMessage,
		},
		Footer: Footer{
			BrandName:    dict.Brand.Name,
			BrandTagline: dict.Brand.FooterTagline,
			Copyright:    a.copyright(dict),
			SocialLinks: []SocialLink{
				{Icon: "github", Label: "GitHub", Href: a.site.GitHubURL},
				{Icon: "discord", Label: "Discord", Href: a.site.DiscordURL},
			},
		},
	}

	if projectsErr != nil {
		slog.Warn("projects fetch failed", logfields.Section("projects"), logfields.Error(projectsErr))
		snap.Projects.Projects = []ProjectCard{}
		snap.Projects.Error = errProjectsFetch
	} else if snap.Projects.Projects == nil {
		snap.Projects.Projects = []ProjectCard{}
	}
	if cardsErr != nil {
		slog.Warn("testimonials load failed", logfields.Section("testimonials"), logfields.Error(cardsErr))
		snap.Testimonials.Testimonials = []TestimonialCard{}
		snap.Testimonials.Error = errTestimonialsFetch
	} else if snap.Testimonials.Testimonials == nil {
		snap.Testimonials.Testimonials = []TestimonialCard{}
	}

	return snap
}

func (a *Aggregator) copyright(dict *i18n.Dictionary) string {
	s := dict.Brand.Copyright
	s = strings.ReplaceAll(s, "{year}", strconv.Itoa(a.now().Year()))
	s = strings.ReplaceAll(s, "{brandName}", dict.Brand.Name)
	return s
}
