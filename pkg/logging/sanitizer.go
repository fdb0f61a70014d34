package logging

import (
	"regexp"
)

// RedactedText replaces sensitive data in sanitized output.
const RedactedText = "[REDACTED]"

var (
	// password=xxx, pwd=xxx, pass=xxx up to the next delimiter
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@host inside URL-style locators
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)

	// api_key=xxx style values
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey)=[A-Za-z0-9-_]{8,}`)
)

// SanitizeLocator removes credentials from a datasource locator so it can be
// logged or echoed back to the caller.
func SanitizeLocator(locator string) string {
	if locator == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(locator, "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeError scrubs an error message that may embed a locator or API key.
// Driver errors frequently echo the DSN they failed to connect with; run every
// datasource error through this before logging it or surfacing it to a caller.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
}
