package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/middleware"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

// validate is the shared tag validator for request payloads.
var validate = validator.New()

// AuthHandler exposes signup, login, logout, and the password flows.
type AuthHandler struct {
	Handler
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(s *server.Server, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

// setAuthCookie mirrors the token into an http-only cookie so browser
// clients stay logged in without storing the JWT in script-readable
// storage.
func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().AddDate(0, 0, h.server.Config.Auth.CookieExpiryDays),
		HttpOnly: true,
		Secure:   h.server.Config.Primary.Env == "production",
		Path:     "/",
	})
}

type SignupRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (r *SignupRequest) Validate() error { return validate.Struct(r) }

// Signup registers an account and logs it in.
func (h *AuthHandler) Signup(c echo.Context, req *SignupRequest) (Envelope, error) {
	user, token, err := h.auth.Signup(c.Request().Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return Envelope{}, err
	}

	h.setAuthCookie(c, token)
	return SuccessWithToken(user, token), nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return validate.Struct(r) }

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (Envelope, error) {
	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return Envelope{}, err
	}

	h.setAuthCookie(c, token)
	return SuccessWithToken(user, token), nil
}

// Logout overwrites the auth cookie with a short-lived dummy value.
// Bearer clients just drop their token.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Path:     "/",
	})

	return c.JSON(http.StatusOK, Envelope{Status: "success"})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error { return validate.Struct(r) }

// ForgotPassword mails a reset link to the account's address.
func (h *AuthHandler) ForgotPassword(c echo.Context, req *ForgotPasswordRequest) (Envelope, error) {
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return Envelope{}, err
	}

	return Envelope{Status: "success", Message: "Token sent to email!"}, nil
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (r *ResetPasswordRequest) Validate() error { return validate.Struct(r) }

// ResetPassword consumes the emailed token and sets a new password.
func (h *AuthHandler) ResetPassword(c echo.Context, req *ResetPasswordRequest) (Envelope, error) {
	user, token, err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		return Envelope{}, err
	}

	h.setAuthCookie(c, token)
	return SuccessWithToken(user, token), nil
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (r *UpdatePasswordRequest) Validate() error { return validate.Struct(r) }

// UpdatePassword changes the caller's password and reissues the token.
func (h *AuthHandler) UpdatePassword(c echo.Context, req *UpdatePasswordRequest) (Envelope, error) {
	user := middleware.CurrentUser(c)

	updated, token, err := h.auth.UpdatePassword(c.Request().Context(), user.ID, req.PasswordCurrent, req.Password)
	if err != nil {
		return Envelope{}, err
	}

	h.setAuthCookie(c, token)
	return SuccessWithToken(updated, token), nil
}
