package repository

import (
	"github.com/wandero/tourbook/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users    *UserRepository
	Tours    *TourRepository
	Reviews  *ReviewRepository
	Bookings *BookingRepository
}

// NewRepositories constructs the repository container over the shared
// connection pool.
func NewRepositories(s *server.Server) *Repositories {
	reviews := NewReviewRepository(s.DB.Pool, s.Logger)

	return &Repositories{
		Users:    NewUserRepository(s.DB.Pool, s.Logger),
		Tours:    NewTourRepository(s.DB.Pool, s.Logger, reviews),
		Reviews:  reviews,
		Bookings: NewBookingRepository(s.DB.Pool, s.Logger),
	}
}
