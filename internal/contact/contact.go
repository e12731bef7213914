// Package contact implements the contact submission pipeline: validation,
// sanitization, bot-check verification, and delivery to notification sinks.
package contact

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/logfields"
)

// Submission is the raw contact form payload.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	TurnstileToken string `json:"turnstileToken"`
}

// Maximum field lengths in characters, enforced after sanitization.
// Oversized input is rejected, never truncated.
const (
	MaxNameLen    = 100
	MaxEmailLen   = 100
	MaxSubjectLen = 200
	MaxMessageLen = 2000
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Recorder persists accepted submissions; delivery is best-effort and
// never fails the request.
type Recorder interface {
	Record(ctx context.Context, sub Submission, sinkNotes []string) error
}

// Pipeline runs a submission through validation, verification,
// sanitization, and sink delivery.
type Pipeline struct {
	verifier TokenVerifier
	sinks    []Sink
	recorder Recorder
}

// NewPipeline assembles the pipeline. recorder may be nil.
func NewPipeline(verifier TokenVerifier, sinks []Sink, recorder Recorder) *Pipeline {
	return &Pipeline{verifier: verifier, sinks: sinks, recorder: recorder}
}

// Process validates, verifies, sanitizes, and forwards a submission.
// The returned error is a *errors.SiteError whose category drives the
// HTTP status.
func (p *Pipeline) Process(ctx context.Context, sub Submission) error {
	if sub.Name == "" || sub.Email == "" || sub.Subject == "" || sub.Message == "" || sub.TurnstileToken == "" {
		return siteerr.ValidationFailed("All fields are required.")
	}
	if !emailRe.MatchString(sub.Email) {
		return siteerr.ValidationFailed("Invalid email format.")
	}

	if err := p.verifier.Verify(ctx, sub.TurnstileToken); err != nil {
		return err
	}

	clean := Submission{
		Name:    Sanitize(sub.Name),
		Email:   stripMarkup(strings.TrimSpace(sub.Email)),
		Subject: Sanitize(sub.Subject),
		Message: Sanitize(sub.Message),
	}
	if utf8.RuneCountInString(clean.Name) > MaxNameLen || utf8.RuneCountInString(clean.Email) > MaxEmailLen ||
		utf8.RuneCountInString(clean.Subject) > MaxSubjectLen || utf8.RuneCountInString(clean.Message) > MaxMessageLen {
		return siteerr.ValidationFailed("Input exceeds maximum length.")
	}

	notes := p.deliver(ctx, clean)

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, clean, notes.all()); err != nil {
			slog.Warn("submission journal write failed", logfields.Error(err))
		}
	}

	if notes.allConfiguredFailed() {
		return siteerr.NotificationFailed(notes.failures)
	}
	return nil
}

// deliveryNotes tracks per-sink outcomes for the response details and the
// journal record.
type deliveryNotes struct {
	skipped   []string
	failures  []string
	delivered int
	attempted int
}

func (n *deliveryNotes) all() []string {
	return append(append([]string{}, n.skipped...), n.failures...)
}

func (n *deliveryNotes) allConfiguredFailed() bool {
	return n.attempted > 0 && n.delivered == 0
}

func (p *Pipeline) deliver(ctx context.Context, clean Submission) *deliveryNotes {
	notes := &deliveryNotes{}
	for _, sink := range p.sinks {
		if !sink.Configured() {
			note := sink.Name() + " is not configured. Skipping notification."
			notes.skipped = append(notes.skipped, note)
			slog.Warn("notification sink skipped", logfields.Sink(sink.Name()))
			continue
		}
		notes.attempted++
		if err := sink.Deliver(ctx, clean); err != nil {
			notes.failures = append(notes.failures, "Failed to send "+sink.Name()+" notification.")
			slog.Error("notification sink delivery failed", logfields.Sink(sink.Name()), logfields.Error(err))
			continue
		}
		notes.delivered++
		slog.Info("notification delivered", logfields.Sink(sink.Name()))
	}
	return notes
}

// Sanitize strips markup from a free-text field and re-encodes
// HTML-significant characters, trimming surrounding whitespace.
func Sanitize(s string) string {
	return encodeHTML(stripMarkup(strings.TrimSpace(s)))
}

var htmlEncoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func encodeHTML(s string) string { return htmlEncoder.Replace(s) }

// stripMarkup drops tags and the contents of script/style elements,
// keeping only text.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	tz := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := tz.TagName()
			if isExecutable(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if isExecutable(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tz.Text())
			}
		}
	}
}

func isExecutable(tag string) bool {
	return tag == "script" || tag == "style"
}

// now is stubbed in tests of the Discord payload timestamp.
var now = time.Now
