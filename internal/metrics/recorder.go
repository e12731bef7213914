package metrics

import "time"

// Recorder defines observability hooks for page renders, theme switches,
// and contact submissions. Implementations may forward to Prometheus.
// The NoopRecorder allows optional injection.
type Recorder interface {
	ObserveRenderDuration(theme, locale string, d time.Duration)
	IncThemeSwitch(theme string)
	IncThemeFallback()
	IncContactSubmission(outcome string) // outcome: accepted|rejected|captcha_failed|notify_failed
	IncSectionError(section string)      // section: projects|testimonials
	IncHTTPRequest(status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRenderDuration(string, string, time.Duration) {}
func (NoopRecorder) IncThemeSwitch(string)                               {}
func (NoopRecorder) IncThemeFallback()                                   {}
func (NoopRecorder) IncContactSubmission(string)                         {}
func (NoopRecorder) IncSectionError(string)                              {}
func (NoopRecorder) IncHTTPRequest(int)                                  {}
