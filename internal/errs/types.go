package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 error for bad input or schema
// violations. code overrides the default "BAD_REQUEST" when non-empty;
// fieldErrors carries per-field validation detail.
func NewBadRequestError(message string, code string, fieldErrors []FieldError) *HTTPError {
	if code == "" {
		code = MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	}
	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  fieldErrors,
	}
}

// NewUnauthorizedError creates a 401 error for missing, invalid, or
// expired credentials.
func NewUnauthorizedError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a 403 error for an authenticated subject whose
// role is not permitted.
func NewForbiddenError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewNotFoundError creates a 404 error. code overrides the default
// "NOT_FOUND" when non-empty.
func NewNotFoundError(message string, code string) *HTTPError {
	if code == "" {
		code = MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	}
	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewTooManyRequestsError creates a 429 for rate-limited clients.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// NewInternalServerError creates a generic 500. The message is always the
// bare status text; internal detail belongs in logs, not responses.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
