package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty levels a tour can carry.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Tour is a bookable tour listing.
//
// RatingsAverage and RatingsQuantity are derived from reviews and
// recomputed after every review write; they are never accepted from
// request bodies.
type Tour struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	Duration     int       `db:"duration" json:"duration"`
	MaxGroupSize int       `db:"max_group_size" json:"max_group_size"`
	Difficulty   string    `db:"difficulty" json:"difficulty"`

	RatingsAverage  float64 `db:"ratings_average" json:"ratings_average"`
	RatingsQuantity int     `db:"ratings_quantity" json:"ratings_quantity"`

	Price         float64  `db:"price" json:"price"`
	PriceDiscount *float64 `db:"price_discount" json:"price_discount,omitempty"`

	Summary     string   `db:"summary" json:"summary"`
	Description string   `db:"description" json:"description"`
	ImageCover  string   `db:"image_cover" json:"image_cover"`
	Images      []string `db:"images" json:"images"`

	StartDates []time.Time `db:"start_dates" json:"start_dates"`

	// Start location as plain coordinates; radius queries use a haversine
	// distance computed in SQL.
	StartLat     *float64 `db:"start_lat" json:"start_lat,omitempty"`
	StartLng     *float64 `db:"start_lng" json:"start_lng,omitempty"`
	StartAddress string   `db:"start_address" json:"start_address,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Reviews is a computed relation filled by the read path on demand;
	// it is not persisted on the tour row.
	Reviews []Review `db:"-" json:"reviews,omitempty"`
}

// TourStats is one aggregate row of GET /tours/stats, grouped by
// difficulty over well-rated tours.
type TourStats struct {
	Difficulty string  `db:"difficulty" json:"difficulty"`
	NumTours   int     `db:"num_tours" json:"num_tours"`
	NumRatings int     `db:"num_ratings" json:"num_ratings"`
	AvgRating  float64 `db:"avg_rating" json:"avg_rating"`
	AvgPrice   float64 `db:"avg_price" json:"avg_price"`
	MinPrice   float64 `db:"min_price" json:"min_price"`
	MaxPrice   float64 `db:"max_price" json:"max_price"`
}

// MonthlyPlanEntry is one month of GET /tours/monthly-plan/:year.
type MonthlyPlanEntry struct {
	Month     int      `db:"month" json:"month"`
	NumTours  int      `db:"num_tours" json:"num_tours"`
	TourNames []string `db:"tour_names" json:"tours"`
}

// TourDistance is one row of GET /tours/distances/:latlng/unit/:unit:
// a tour and its distance from the given point, in the requested unit.
type TourDistance struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Distance float64   `db:"distance" json:"distance"`
}
