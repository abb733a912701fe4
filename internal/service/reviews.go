package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/sqlerr"
)

// ReviewService implements review writes. Every write triggers a
// best-effort recompute of the parent tour's rating aggregates: the
// review write itself is authoritative, the aggregates converge.
type ReviewService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewReviewService constructs the review service.
func NewReviewService(s *server.Server, repos *repository.Repositories) *ReviewService {
	return &ReviewService{
		server: s,
		repos:  repos,
	}
}

// Create inserts a review and refreshes the tour's rating stats. The
// (tour, user) pair is unique: a second review from the same account is
// rejected rather than mapped through the generic constraint funnel.
func (r *ReviewService) Create(ctx context.Context, values map[string]any) (*model.Review, error) {
	review, err := r.repos.Reviews.Create(ctx, values)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.UniqueViolation {
			return nil, errs.NewBadRequestError(
				"You have already reviewed this tour", "REVIEW_ALREADY_EXISTS", nil)
		}
		return nil, err
	}

	r.recomputeRatings(ctx, review.TourID)
	return review, nil
}

// Update updates a review and refreshes the tour's rating stats.
func (r *ReviewService) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*model.Review, error) {
	review, err := r.repos.Reviews.UpdateByID(ctx, id, values)
	if err != nil {
		return nil, err
	}

	r.recomputeRatings(ctx, review.TourID)
	return review, nil
}

// Delete removes a review and refreshes the tour's rating stats.
func (r *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := r.repos.Reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.repos.Reviews.DeleteByID(ctx, id); err != nil {
		return err
	}

	r.recomputeRatings(ctx, review.TourID)
	return nil
}

// recomputeRatings refreshes the tour aggregates after a review write.
// Failure is logged, not returned: the committed review write wins and a
// later write will converge the aggregates.
func (r *ReviewService) recomputeRatings(ctx context.Context, tourID uuid.UUID) {
	if err := r.repos.Tours.RecomputeRatingStats(ctx, tourID); err != nil {
		r.server.Logger.Error().
			Str("tour_id", tourID.String()).
			Err(err).
			Msg("Failed to recompute tour rating stats")
	}
}
