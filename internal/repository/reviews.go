package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/model"
)

var reviewColumns = []string{
	"id", "tour_id", "user_id", "review", "rating", "created_at",
}

// ReviewRepository provides review persistence.
type ReviewRepository struct {
	*Store[model.Review]
	db  Querier
	log *zerolog.Logger
}

// NewReviewRepository constructs the reviews repository.
func NewReviewRepository(db Querier, log *zerolog.Logger) *ReviewRepository {
	return &ReviewRepository{
		Store: NewStore[model.Review](db, log, "reviews", reviewColumns),
		db:    db,
		log:   log,
	}
}

// ListByTour returns every review of a tour, newest first.
func (r *ReviewRepository) ListByTour(ctx context.Context, tourID uuid.UUID) ([]model.Review, error) {
	sqlStr, args, err := psql.Select(reviewColumns...).
		From("reviews").
		Where(sq.Eq{"tour_id": tourID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[model.Review])
}
