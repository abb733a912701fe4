package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
)

// UserService implements the self-service account operations.
type UserService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewUserService constructs the user service.
func NewUserService(s *server.Server, repos *repository.Repositories) *UserService {
	return &UserService{
		server: s,
		repos:  repos,
	}
}

// UpdateMeInput is the validated profile update payload. Password
// changes go through the dedicated credential endpoint.
type UpdateMeInput struct {
	Name  *string
	Email *string
	Photo *string
}

// UpdateMe updates the caller's profile fields.
func (u *UserService) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (*model.User, error) {
	values := map[string]any{}
	if in.Name != nil {
		values["name"] = *in.Name
	}
	if in.Email != nil {
		values["email"] = *in.Email
	}
	if in.Photo != nil {
		values["photo"] = *in.Photo
	}

	if len(values) == 0 {
		return nil, errs.NewBadRequestError("No updatable fields provided", "EMPTY_UPDATE", nil)
	}

	return u.repos.Users.UpdateByID(ctx, userID, values)
}

// DeactivateMe soft-deletes the caller's account.
func (u *UserService) DeactivateMe(ctx context.Context, userID uuid.UUID) error {
	return u.repos.Users.Deactivate(ctx, userID)
}
