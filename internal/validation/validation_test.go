package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/tourbook/internal/errs"
)

var validate = validator.New()

type signupPayload struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (p *signupPayload) Validate() error { return validate.Struct(p) }

func bind(t *testing.T, body string, payload Validatable) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	return BindAndValidate(c, payload)
}

func TestBindAndValidate_OK(t *testing.T) {
	p := &signupPayload{}
	err := bind(t, `{"name":"Mia","email":"mia@example.com","password":"password123","password_confirm":"password123"}`, p)
	require.NoError(t, err)
	assert.Equal(t, "Mia", p.Name)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	err := bind(t, `{"name":`, &signupPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Request body could not be parsed", httpErr.Message)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := bind(t, `{"email":"nope","password":"short","password_confirm":"different"}`, &signupPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}

	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must be at least 8 characters", byField["password"])
	assert.Equal(t, "must match password", byField["passwordconfirm"])
}

func TestExtractValidationError_Custom(t *testing.T) {
	msg, fieldErrors := extractValidationError(CustomValidationErrors{
		{Field: "latlng", Message: "must be in the format lat,lng"},
	})

	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "latlng", fieldErrors[0].Field)
}
