package service

import (
	"github.com/wandero/tourbook/internal/lib/job"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
)

// Services is a container that groups the business layer.
type Services struct {
	Auth     *AuthService
	Users    *UserService
	Tours    *TourService
	Reviews  *ReviewService
	Bookings *BookingService
	Job      *job.JobService
}

// NewServices constructs the service container.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s, repos.Users)

	return &Services{
		Auth:     authService,
		Users:    NewUserService(s, repos),
		Tours:    NewTourService(s, repos),
		Reviews:  NewReviewService(s, repos),
		Bookings: NewBookingService(s, repos),
		Job:      s.Job,
	}, nil
}
