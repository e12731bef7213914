package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/escuadron-404/sitio/internal/contact"
	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/logfields"
	"github.com/escuadron-404/sitio/internal/metrics"
)

// Submissions larger than this are rejected before JSON decoding; the
// field-level length caps are far below it.
const maxContactBodyBytes = 64 << 10

// ContactHandlers serves the contact form API.
type ContactHandlers struct {
	pipeline     *contact.Pipeline
	rec          metrics.Recorder
	errorAdapter *siteerr.HTTPErrorAdapter
}

// NewContactHandlers creates the contact handlers.
func NewContactHandlers(pipeline *contact.Pipeline, rec metrics.Recorder) *ContactHandlers {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &ContactHandlers{
		pipeline:     pipeline,
		rec:          rec,
		errorAdapter: siteerr.NewHTTPErrorAdapter(slog.Default()),
	}
}

type contactSuccessResponse struct {
	Message string `json:"message"`
}

// HandleSubmit handles POST /api/contact.
func (h *ContactHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodPost))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxContactBodyBytes)
	var sub contact.Submission
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			h.rec.IncContactSubmission("rejected")
			h.errorAdapter.WriteErrorResponse(w,
				siteerr.ValidationFailed("Invalid request body."))
			return
		}
	} else {
		// No-JS fallback: the themed form posts form-encoded with the
		// Turnstile widget's standard response field.
		if err := r.ParseForm(); err != nil {
			h.rec.IncContactSubmission("rejected")
			h.errorAdapter.WriteErrorResponse(w,
				siteerr.ValidationFailed("Invalid request body."))
			return
		}
		sub = contact.Submission{
			Name:           r.FormValue("name"),
			Email:          r.FormValue("email"),
			Subject:        r.FormValue("subject"),
			Message:        r.FormValue("message"),
			TurnstileToken: r.FormValue("cf-turnstile-response"),
		}
	}

	if err := h.pipeline.Process(r.Context(), sub); err != nil {
		h.rec.IncContactSubmission(outcomeFor(err))
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	h.rec.IncContactSubmission("accepted")
	slog.Info("contact submission accepted")
	if err := writeJSON(w, http.StatusOK, contactSuccessResponse{Message: "Form submitted successfully!"}); err != nil {
		slog.Error("failed writing contact response", logfields.Error(err))
	}
}

func outcomeFor(err error) string {
	var se *siteerr.SiteError
	if !errors.As(err, &se) {
		return "error"
	}
	switch se.Category {
	case siteerr.CategoryValidation:
		return "rejected"
	case siteerr.CategoryCaptcha:
		return "captcha_failed"
	case siteerr.CategoryNotification:
		return "notify_failed"
	default:
		return "error"
	}
}
