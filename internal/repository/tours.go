package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/model"
)

var tourColumns = []string{
	"id", "name", "slug", "duration", "max_group_size", "difficulty",
	"ratings_average", "ratings_quantity", "price", "price_discount",
	"summary", "description", "image_cover", "images", "start_dates",
	"start_lat", "start_lng", "start_address", "created_at",
}

// TourRepository provides tour persistence plus the aggregation reads
// (stats, monthly plan, geo search) that plain CRUD cannot express.
type TourRepository struct {
	*Store[model.Tour]
	db      Querier
	log     *zerolog.Logger
	reviews *ReviewRepository
}

// NewTourRepository constructs the tours repository.
func NewTourRepository(db Querier, log *zerolog.Logger, reviews *ReviewRepository) *TourRepository {
	return &TourRepository{
		Store:   NewStore[model.Tour](db, log, "tours", tourColumns),
		db:      db,
		log:     log,
		reviews: reviews,
	}
}

// FindByIDWithReviews returns a tour together with its reviews, the
// expanded single-resource read.
func (r *TourRepository) FindByIDWithReviews(ctx context.Context, id uuid.UUID) (*model.Tour, error) {
	tour, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := r.reviews.ListByTour(ctx, id)
	if err != nil {
		return nil, err
	}

	tour.Reviews = reviews
	return tour, nil
}

// Stats aggregates rating and price figures per difficulty over tours
// rated at least 4.4, best-rated difficulty groups first by price.
func (r *TourRepository) Stats(ctx context.Context) ([]model.TourStats, error) {
	const sqlStr = `
		SELECT upper(difficulty)          AS difficulty,
		       count(*)                   AS num_tours,
		       coalesce(sum(ratings_quantity), 0) AS num_ratings,
		       coalesce(avg(ratings_average), 0)  AS avg_rating,
		       coalesce(avg(price), 0)    AS avg_price,
		       coalesce(min(price), 0)    AS min_price,
		       coalesce(max(price), 0)    AS max_price
		FROM tours
		WHERE ratings_average >= 4.4
		GROUP BY difficulty
		ORDER BY avg_price ASC`

	rows, err := r.db.Query(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[model.TourStats])
}

// MonthlyPlan counts tour starts per month of the given year, busiest
// months first. Months with no starts are omitted.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error) {
	const sqlStr = `
		SELECT extract(month FROM d)::int AS month,
		       count(*)                   AS num_tours,
		       array_agg(name ORDER BY name) AS tour_names
		FROM tours,
		     unnest(start_dates) AS d
		WHERE d >= make_date($1, 1, 1)
		  AND d < make_date($1 + 1, 1, 1)
		GROUP BY month
		ORDER BY num_tours DESC, month ASC`

	rows, err := r.db.Query(ctx, sqlStr, year)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[model.MonthlyPlanEntry])
}

// WithinRadius returns tours whose start location falls inside the
// great-circle radius (in kilometers) around the given point.
func (r *TourRepository) WithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]*model.Tour, error) {
	sqlStr, args, err := psql.Select(tourColumns...).
		From("tours").
		Where(sq.Expr("start_lat IS NOT NULL AND start_lng IS NOT NULL")).
		Where(sq.Expr(
			`6371 * acos(least(1.0,
				cos(radians(?)) * cos(radians(start_lat)) * cos(radians(start_lng) - radians(?))
				+ sin(radians(?)) * sin(radians(start_lat)))) <= ?`,
			lat, lng, lat, radiusKm,
		)).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[model.Tour])
}

// DistancesFrom returns every located tour with its great-circle
// distance (in kilometers) from the given point, nearest first.
func (r *TourRepository) DistancesFrom(ctx context.Context, lat, lng float64) ([]model.TourDistance, error) {
	sqlStr, args, err := psql.Select("id", "name").
		Column(sq.Expr(
			`6371 * acos(least(1.0,
				cos(radians(?)) * cos(radians(start_lat)) * cos(radians(start_lng) - radians(?))
				+ sin(radians(?)) * sin(radians(start_lat)))) AS distance`,
			lat, lng, lat,
		)).
		From("tours").
		Where(sq.Expr("start_lat IS NOT NULL AND start_lng IS NOT NULL")).
		OrderBy("distance ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[model.TourDistance])
}

// RecomputeRatingStats refreshes a tour's rating average and count from
// its reviews in a single statement. With no reviews left the tour
// settles back to zero ratings.
func (r *TourRepository) RecomputeRatingStats(ctx context.Context, tourID uuid.UUID) error {
	const sqlStr = `
		UPDATE tours
		SET ratings_quantity = s.cnt,
		    ratings_average  = coalesce(s.avg, 0)
		FROM (
			SELECT count(*) AS cnt, round(avg(rating)::numeric, 1) AS avg
			FROM reviews
			WHERE tour_id = $1
		) s
		WHERE id = $1`

	_, err := r.db.Exec(ctx, sqlStr, tourID)
	return err
}
