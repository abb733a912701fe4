package sqlerr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/tourbook/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleError_UniqueViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
	assert.Contains(t, httpErr.Message, "Email")
}

func TestHandleError_ForeignKeyViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		TableName:  "reviews",
		ColumnName: "tour_id",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "REVIEW_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Tour does not exist", httpErr.Message)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "tours",
		ColumnName: "image_cover",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TOUR_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "image_cover", httpErr.Errors[0].Field)
}

func TestHandleError_CheckViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23514",
		TableName:  "reviews",
		ColumnName: "rating",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "REVIEW_INVALID", httpErr.Code)
}

func TestHandleError_InvalidTextRepresentation(t *testing.T) {
	err := HandleError(&pgconn.PgError{Code: "22P02"})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid identifier format", httpErr.Message)
}

func TestHandleError_NoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleError_PassesThroughHTTPError(t *testing.T) {
	original := errs.NewForbiddenError("nope")
	assert.Same(t, original, asHTTPError(t, HandleError(original)))
}

func TestHandleError_UnknownError(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, InvalidTextRep, MapCode("22P02"))
	assert.Equal(t, Other, MapCode("40001"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "slug", extractColumnForUniqueViolation("tours_slug_key"))
	assert.Equal(t, "name", extractColumnForUniqueViolation("unique_tours_name"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestErrCode(t *testing.T) {
	raw := &pgconn.PgError{Code: "23505", TableName: "reviews"}
	assert.Equal(t, UniqueViolation, ErrCode(raw))
	assert.Equal(t, UniqueViolation, ErrCode(ConvertPgError(raw)))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
	assert.Equal(t, Other, ErrCode(pgx.ErrNoRows))
}
