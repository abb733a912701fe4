package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/middleware"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

// UsersHandler exposes the self-service "me" endpoints plus admin user
// management through the CRUD factory. There is no admin create: new
// accounts only enter through signup.
type UsersHandler struct {
	Handler

	// CRUD serves the admin user management endpoints.
	CRUD *CRUDHandler[model.User]

	users *service.UserService
}

// NewUsersHandler constructs a UsersHandler.
func NewUsersHandler(s *server.Server, users *service.UserService, repo *repository.UserRepository) *UsersHandler {
	return &UsersHandler{
		Handler: NewHandler(s),
		CRUD:    NewCRUDHandler[model.User](s, repo, "user"),
		users:   users,
	}
}

// GetMe returns the caller's own account.
func (h *UsersHandler) GetMe(c echo.Context) error {
	return c.JSON(http.StatusOK, Success(middleware.CurrentUser(c)))
}

// UpdateMe updates the caller's profile. The body is bound as a map so
// password fields can be detected and rejected rather than silently
// dropped; password changes have their own endpoint.
func (h *UsersHandler) UpdateMe(c echo.Context) error {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return errs.NewBadRequestError("Request body could not be parsed", "MALFORMED_BODY", nil)
	}

	if _, ok := body["password"]; ok {
		return errs.NewBadRequestError(
			"This route is not for password updates. Please use /update-my-password.",
			"PASSWORD_UPDATE_NOT_ALLOWED", nil)
	}
	if _, ok := body["password_confirm"]; ok {
		return errs.NewBadRequestError(
			"This route is not for password updates. Please use /update-my-password.",
			"PASSWORD_UPDATE_NOT_ALLOWED", nil)
	}

	var in service.UpdateMeInput
	if v, ok := body["name"].(string); ok {
		in.Name = &v
	}
	if v, ok := body["email"].(string); ok {
		in.Email = &v
	}
	if v, ok := body["photo"].(string); ok {
		in.Photo = &v
	}

	user := middleware.CurrentUser(c)
	updated, err := h.users.UpdateMe(c.Request().Context(), user.ID, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Success(updated))
}

// DeleteMeRequest is an empty payload; deactivation needs nothing beyond
// the authenticated caller.
type DeleteMeRequest struct{}

func (r *DeleteMeRequest) Validate() error { return nil }

// DeleteMe deactivates the caller's account.
func (h *UsersHandler) DeleteMe(c echo.Context, req *DeleteMeRequest) error {
	user := middleware.CurrentUser(c)
	return h.users.DeactivateMe(c.Request().Context(), user.ID)
}
