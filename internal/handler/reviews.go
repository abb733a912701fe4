package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/middleware"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

// ReviewsHandler exposes review endpoints. Reads go through the CRUD
// factory; writes go through the review service so the parent tour's
// rating aggregates get refreshed.
type ReviewsHandler struct {
	Handler

	// CRUD serves the review reads, scoped to the tour on nested routes.
	CRUD *CRUDHandler[model.Review]

	reviews *service.ReviewService
}

// NewReviewsHandler constructs a ReviewsHandler.
func NewReviewsHandler(s *server.Server, reviews *service.ReviewService, repo *repository.ReviewRepository) *ReviewsHandler {
	crud := NewCRUDHandler[model.Review](s, repo, "review",
		WithScope[model.Review]("tourId", "tour_id"),
		WithImmutableColumns[model.Review]("user_id"),
	)

	return &ReviewsHandler{
		Handler: NewHandler(s),
		CRUD:    crud,
		reviews: reviews,
	}
}

// Create inserts a review. The tour comes from the nested route (or the
// body on the flat route) and the author is always the caller; clients
// cannot review on someone else's behalf.
func (h *ReviewsHandler) Create(c echo.Context) error {
	values, err := h.CRUD.bindWritableBody(c)
	if err != nil {
		return err
	}

	if raw := c.Param("tourId"); raw != "" {
		tourID, err := uuid.Parse(raw)
		if err != nil {
			return errs.NewBadRequestError("Invalid ID format", "INVALID_ID", nil)
		}
		values["tour_id"] = tourID
	}
	if _, ok := values["tour_id"]; !ok {
		return errs.NewBadRequestError("A review must belong to a tour", "MISSING_TOUR", nil)
	}

	values["user_id"] = middleware.CurrentUser(c).ID

	review, err := h.reviews.Create(c.Request().Context(), values)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, Success(review))
}

// Update applies a partial update to a review's text or rating.
func (h *ReviewsHandler) Update(c echo.Context) error {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	values, err := h.CRUD.bindWritableBody(c)
	if err != nil {
		return err
	}
	// A review stays on its tour; only text and rating are updatable.
	delete(values, "tour_id")

	review, err := h.reviews.Update(c.Request().Context(), id, values)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("No review found with that ID", "")
		}
		return err
	}

	return c.JSON(http.StatusOK, Success(review))
}

// Delete removes a review.
func (h *ReviewsHandler) Delete(c echo.Context) error {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviews.Delete(c.Request().Context(), id); err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("No review found with that ID", "")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
