package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination
// for the HTTP handlers.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter with an optional slog logger.
// If logger is nil, the default package logger will be used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse represents a standard JSON error payload.
type HTTPErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if se, ok := err.(*SiteError); ok {
		switch se.Category {
		case CategoryValidation:
			return http.StatusBadRequest
		case CategoryAuth, CategoryCaptcha:
			return http.StatusUnauthorized
		case CategoryUpstream:
			return http.StatusBadGateway
		case CategoryConfig, CategoryNotification, CategoryTheme, CategoryRender, CategoryInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// userMessage maps an error to the message shown to callers. Config and
// internal failures stay generic; detail lives in the server log only.
func (a *HTTPErrorAdapter) userMessage(err error) string {
	se, ok := err.(*SiteError)
	if !ok {
		return "internal server error"
	}
	switch se.Category {
	case CategoryConfig, CategoryInternal, CategoryRender, CategoryTheme:
		return "Server configuration error."
	default:
		return se.Message
	}
}

// WriteErrorResponse writes a JSON error response and logs with a level
// matching the error severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	payload := HTTPErrorResponse{Error: a.userMessage(err)}
	if se, ok := err.(*SiteError); ok {
		if details, ok := se.Context["details"].([]string); ok {
			payload.Details = details
		}
	}

	var buf bytes.Buffer
	if jerr := json.NewEncoder(&buf).Encode(payload); jerr != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())

	a.logger.Log(context.Background(), a.levelFor(err), err.Error())
}

func (a *HTTPErrorAdapter) levelFor(err error) slog.Level {
	if se, ok := err.(*SiteError); ok {
		switch se.Severity {
		case SeverityWarning:
			return slog.LevelWarn
		case SeverityFatal:
			return slog.LevelError
		}
	}
	return slog.LevelError
}
