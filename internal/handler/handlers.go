package handler

import (
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

// Handlers is a container that groups all HTTP handlers, keeping router
// setup to a single object.
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Users    *UsersHandler
	Tours    *ToursHandler
	Reviews  *ReviewsHandler
	Bookings *BookingsHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		Auth:     NewAuthHandler(s, services.Auth),
		Users:    NewUsersHandler(s, services.Users, repos.Users),
		Tours:    NewToursHandler(s, services.Tours, repos.Tours),
		Reviews:  NewReviewsHandler(s, services.Reviews, repos.Reviews),
		Bookings: NewBookingsHandler(s, services.Bookings, repos.Bookings),
	}
}
