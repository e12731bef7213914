package errors

// Convenience constructors for common error patterns.

// Config errors

func ConfigRequired(field string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

// ValidationFailed carries a user-presentable rejection message; the HTTP
// adapter passes it through verbatim.
func ValidationFailed(message string) *SiteError {
	return New(CategoryValidation, SeverityError, message)
}

// Upstream errors

func UpstreamFailed(source string, cause error) *SiteError {
	return Wrap(cause, CategoryUpstream, SeverityWarning, "upstream fetch failed").
		WithContext("source", source)
}

func CaptchaRejected() *SiteError {
	return New(CategoryCaptcha, SeverityError, "CAPTCHA verification failed.")
}

// NotificationFailed reports that every configured sink failed; details
// lists the per-sink failure notes surfaced in the response.
func NotificationFailed(details []string) *SiteError {
	return New(CategoryNotification, SeverityError, "Some notifications failed to send.").
		WithContext("details", details)
}

// Theme errors

func ThemeLoadFailed(id string, cause error) *SiteError {
	return Wrap(cause, CategoryTheme, SeverityFatal, "theme bundle load failed").
		WithContext("theme", id)
}

func RenderFailed(slot string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("slot", slot)
}
