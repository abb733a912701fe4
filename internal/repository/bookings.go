package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/model"
)

var bookingColumns = []string{
	"id", "tour_id", "user_id", "price", "paid", "created_at",
}

// BookingRepository provides booking persistence.
type BookingRepository struct {
	*Store[model.Booking]
	db  Querier
	log *zerolog.Logger
}

// NewBookingRepository constructs the bookings repository.
func NewBookingRepository(db Querier, log *zerolog.Logger) *BookingRepository {
	return &BookingRepository{
		Store: NewStore[model.Booking](db, log, "bookings", bookingColumns),
		db:    db,
		log:   log,
	}
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	sqlStr, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[model.Booking])
}
