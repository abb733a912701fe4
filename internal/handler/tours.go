package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

// ToursHandler exposes tour CRUD through the factory plus the
// aggregation and geo endpoints.
type ToursHandler struct {
	Handler

	// CRUD serves the standard tour endpoints. The rating aggregates and
	// the slug are derived fields, never writable.
	CRUD *CRUDHandler[model.Tour]

	tours *service.TourService
	repo  *repository.TourRepository
}

// NewToursHandler constructs a ToursHandler.
func NewToursHandler(s *server.Server, tours *service.TourService, repo *repository.TourRepository) *ToursHandler {
	crud := NewCRUDHandler[model.Tour](s, repo, "tour",
		WithPrepareWrite[model.Tour](tours.PrepareWrite),
		WithImmutableColumns[model.Tour]("slug", "ratings_average", "ratings_quantity"),
	)

	return &ToursHandler{
		Handler: NewHandler(s),
		CRUD:    crud,
		tours:   tours,
		repo:    repo,
	}
}

// GetTour returns one tour expanded with its reviews.
func (h *ToursHandler) GetTour(c echo.Context) error {
	id, err := ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	tour, err := h.repo.FindByIDWithReviews(c.Request().Context(), id)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("No tour found with that ID", "")
		}
		return err
	}

	return c.JSON(http.StatusOK, Success(tour))
}

// TopCheap is a preset listing: the five cheapest well-rated tours with
// a trimmed projection. It rewrites the query string and reuses GetAll.
func (h *ToursHandler) TopCheap() echo.HandlerFunc {
	getAll := h.CRUD.GetAll()
	return func(c echo.Context) error {
		q := c.Request().URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "price,-ratings_average")
		q.Set("fields", "name,price,ratings_average,summary,difficulty")
		c.Request().URL.RawQuery = q.Encode()

		return getAll(c)
	}
}

// Stats returns rating and price aggregates per difficulty.
func (h *ToursHandler) Stats(c echo.Context) error {
	stats, err := h.tours.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessList(stats, len(stats)))
}

// MonthlyPlan returns tour starts per month of the given year.
func (h *ToursHandler) MonthlyPlan(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return errs.NewBadRequestError("Please provide a four-digit year.", "INVALID_YEAR", nil)
	}

	plan, err := h.tours.MonthlyPlan(c.Request().Context(), year)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessList(plan, len(plan)))
}

// Within returns tours starting inside a radius around a point. The
// route is /tours-within/:distance/center/:latlng/unit/:unit with latlng
// as "lat,lng".
func (h *ToursHandler) Within(c echo.Context) error {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		return errs.NewBadRequestError("Distance must be a number.", "INVALID_DISTANCE", nil)
	}

	lat, lng, err := parseLatLng(c.Param("latlng"))
	if err != nil {
		return err
	}

	tours, err := h.tours.Within(c.Request().Context(), distance, lat, lng, c.Param("unit"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessList(tours, len(tours)))
}

// Distances returns every located tour with its distance from a point.
// The route is /distances/:latlng/unit/:unit with latlng as "lat,lng".
func (h *ToursHandler) Distances(c echo.Context) error {
	lat, lng, err := parseLatLng(c.Param("latlng"))
	if err != nil {
		return err
	}

	distances, err := h.tours.Distances(c.Request().Context(), lat, lng, c.Param("unit"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessList(distances, len(distances)))
}

func parseLatLng(raw string) (float64, float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) == 2 {
		lat, latErr := strconv.ParseFloat(parts[0], 64)
		lng, lngErr := strconv.ParseFloat(parts[1], 64)
		if latErr == nil && lngErr == nil {
			return lat, lng, nil
		}
	}
	return 0, 0, errs.NewBadRequestError(
		"Please provide latitude and longitude in the format lat,lng.",
		"INVALID_COORDINATES", nil)
}
