package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's review of a tour. Parent-referenced: the review knows
// its tour, the tour row stores only the derived aggregates. One review
// per (tour, user) pair, enforced by a unique index.
type Review struct {
	ID     uuid.UUID `db:"id" json:"id"`
	TourID uuid.UUID `db:"tour_id" json:"tour_id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	Review string `db:"review" json:"review"`
	Rating int    `db:"rating" json:"rating"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
