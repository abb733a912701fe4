package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking records a purchased tour. Created by the checkout success
// redirect (price captured at purchase time) or directly by staff.
type Booking struct {
	ID     uuid.UUID `db:"id" json:"id"`
	TourID uuid.UUID `db:"tour_id" json:"tour_id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	Price float64 `db:"price" json:"price"`
	Paid  bool    `db:"paid" json:"paid"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
