package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

const (
	// UserKey stores the authenticated *model.User in Echo context.
	UserKey = "user"

	// AuthCookieName is the cookie carrying the JWT for browser clients.
	AuthCookieName = "jwt"
)

// AuthMiddleware is the authentication gate. It resolves a JWT from the
// Authorization header (preferred) or the auth cookie, verifies it
// against the account state, and attaches the account to the request.
type AuthMiddleware struct {
	server *server.Server
	auth   *service.AuthService
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

// extractToken pulls the JWT from the request. A bearer Authorization
// header wins over the cookie.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Protect rejects unauthenticated requests. On success the account is
// stored in Echo context for handlers and later middleware.
func (auth *AuthMiddleware) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return errs.NewUnauthorizedError("You are not logged in! Please log in to get access.")
		}

		user, err := auth.auth.VerifyUser(c.Request().Context(), token)
		if err != nil {
			return err
		}

		setCurrentUser(c, user)
		return next(c)
	}
}

// SoftAuth attaches the account when a valid token is present but never
// rejects the request. Anonymous and invalid-token requests pass through
// unauthenticated.
func (auth *AuthMiddleware) SoftAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := extractToken(c); token != "" {
			if user, err := auth.auth.VerifyUser(c.Request().Context(), token); err == nil {
				setCurrentUser(c, user)
			}
		}
		return next(c)
	}
}

// RestrictTo allows only the given roles through. It must run after
// Protect.
func (auth *AuthMiddleware) RestrictTo(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return errs.NewUnauthorizedError("You are not logged in! Please log in to get access.")
			}
			if !allowed[user.Role] {
				return errs.NewForbiddenError("You do not have permission to perform this action")
			}
			return next(c)
		}
	}
}

func setCurrentUser(c echo.Context, user *model.User) {
	c.Set(UserKey, user)
	c.Set(UserIDKey, user.ID.String())
	c.Set(UserRoleKey, user.Role)
}

// CurrentUser returns the authenticated account, or nil.
func CurrentUser(c echo.Context) *model.User {
	if user, ok := c.Get(UserKey).(*model.User); ok {
		return user
	}
	return nil
}
