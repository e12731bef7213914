package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry           *prom.Registry
	renderDuration     *prom.HistogramVec
	themeSwitches      *prom.CounterVec
	themeFallbacks     prom.Counter
	contactSubmissions *prom.CounterVec
	sectionErrors      *prom.CounterVec
	httpRequests       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the site metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "sitio",
		Name:      "render_duration_seconds",
		Help:      "Duration of full page renders",
		Buckets:   prom.DefBuckets,
	}, []string{"theme", "locale"})
	pr.themeSwitches = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitio",
		Name:      "theme_switches_total",
		Help:      "Committed theme switches by target theme",
	}, []string{"theme"})
	pr.themeFallbacks = prom.NewCounter(prom.CounterOpts{
		Namespace: "sitio",
		Name:      "theme_fallbacks_total",
		Help:      "Theme loads that fell back to the default theme",
	})
	pr.contactSubmissions = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitio",
		Name:      "contact_submissions_total",
		Help:      "Contact submissions by outcome",
	}, []string{"outcome"})
	pr.sectionErrors = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitio",
		Name:      "section_errors_total",
		Help:      "Content sections rendered with an error banner",
	}, []string{"section"})
	pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitio",
		Name:      "http_requests_total",
		Help:      "HTTP requests by status code",
	}, []string{"status"})

	reg.MustRegister(pr.renderDuration, pr.themeSwitches, pr.themeFallbacks,
		pr.contactSubmissions, pr.sectionErrors, pr.httpRequests)
	return pr
}

// Handler exposes the registry for the /metrics endpoint.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}

func (pr *PrometheusRecorder) ObserveRenderDuration(theme, locale string, d time.Duration) {
	pr.renderDuration.WithLabelValues(theme, locale).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncThemeSwitch(theme string) {
	pr.themeSwitches.WithLabelValues(theme).Inc()
}

func (pr *PrometheusRecorder) IncThemeFallback() {
	pr.themeFallbacks.Inc()
}

func (pr *PrometheusRecorder) IncContactSubmission(outcome string) {
	pr.contactSubmissions.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) IncSectionError(section string) {
	pr.sectionErrors.WithLabelValues(section).Inc()
}

func (pr *PrometheusRecorder) IncHTTPRequest(status int) {
	pr.httpRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}
