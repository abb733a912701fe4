package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
)

func newTestContext(t *testing.T, mutate func(*http.Request)) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestExtractToken_BearerHeader(t *testing.T) {
	c := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer header-token")
	})

	assert.Equal(t, "header-token", extractToken(c))
}

func TestExtractToken_Cookie(t *testing.T) {
	c := newTestContext(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})
	})

	assert.Equal(t, "cookie-token", extractToken(c))
}

func TestExtractToken_HeaderWinsOverCookie(t *testing.T) {
	c := newTestContext(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer header-token")
		r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})
	})

	assert.Equal(t, "header-token", extractToken(c))
}

func TestExtractToken_None(t *testing.T) {
	c := newTestContext(t, nil)
	assert.Equal(t, "", extractToken(c))
}

func TestProtect_MissingToken(t *testing.T) {
	auth := &AuthMiddleware{}
	c := newTestContext(t, nil)

	h := auth.Protect(func(c echo.Context) error { return nil })
	err := h(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRestrictTo_AllowsListedRole(t *testing.T) {
	auth := &AuthMiddleware{}
	c := newTestContext(t, nil)
	setCurrentUser(c, &model.User{Role: model.RoleAdmin})

	called := false
	h := auth.RestrictTo(model.RoleAdmin, model.RoleLeadGuide)(func(c echo.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestRestrictTo_RejectsOtherRole(t *testing.T) {
	auth := &AuthMiddleware{}
	c := newTestContext(t, nil)
	setCurrentUser(c, &model.User{Role: model.RoleUser})

	h := auth.RestrictTo(model.RoleAdmin)(func(c echo.Context) error { return nil })
	err := h(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestRestrictTo_NoUser(t *testing.T) {
	auth := &AuthMiddleware{}
	c := newTestContext(t, nil)

	h := auth.RestrictTo(model.RoleAdmin)(func(c echo.Context) error { return nil })
	err := h(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestSoftAuth_AnonymousPassesThrough(t *testing.T) {
	auth := &AuthMiddleware{}
	c := newTestContext(t, nil)

	called := false
	h := auth.SoftAuth(func(c echo.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Nil(t, CurrentUser(c))
}

func TestCurrentUser_RoundTrip(t *testing.T) {
	c := newTestContext(t, nil)
	user := &model.User{Role: model.RoleGuide}

	setCurrentUser(c, user)

	assert.Same(t, user, CurrentUser(c))
	assert.Equal(t, model.RoleGuide, c.Get(UserRoleKey))
}
