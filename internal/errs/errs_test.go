package errs

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores("Too Many Requests"))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"bad request default code", NewBadRequestError("nope", "", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad request custom code", NewBadRequestError("nope", "INVALID_ID", nil), http.StatusBadRequest, "INVALID_ID"},
		{"unauthorized", NewUnauthorizedError("nope"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("nope"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", NewNotFoundError("nope", ""), http.StatusNotFound, "NOT_FOUND"},
		{"too many requests", NewTooManyRequestsError("nope"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestHTTPErrorSurvivesWrapping(t *testing.T) {
	base := NewNotFoundError("No tour found with that ID", "")
	wrapped := errors.Wrap(base, "loading tour")

	var httpErr *HTTPError
	require.ErrorAs(t, wrapped, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}
