// Package errs defines the application's error taxonomy and the single wire
// shape every failure is reduced to before a response is written.
//
// The taxonomy is fixed: validation/bad input (400), authentication (401),
// authorization (403), not found (404), and unexpected (500). Handlers and
// services construct these; the global error handler translates anything
// else into one of them so raw driver or library errors never leak.
package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the single error type carried from handler to response.
//
// Status holds the HTTP status code; Code is a stable machine-readable
// identifier derived from the status text (e.g. "NOT_FOUND") unless a
// caller supplies a domain-specific one (e.g. "REVIEW_ALREADY_EXISTS").
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	// Errors holds per-field validation errors, when applicable.
	Errors []FieldError `json:"errors,omitempty"`
}

// Error satisfies the error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is lets errors.Is match any *HTTPError, regardless of code or status.
// Specific matching is done on the Status/Code fields after errors.As.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts HTTP status text into a stable
// machine code: "Bad Request" -> "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
