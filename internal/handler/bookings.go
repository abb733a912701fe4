package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/middleware"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

// BookingsHandler exposes booking management through the CRUD factory
// plus the Stripe checkout flow.
type BookingsHandler struct {
	Handler

	// CRUD serves the staff booking management endpoints.
	CRUD *CRUDHandler[model.Booking]

	bookings *service.BookingService
	repo     *repository.BookingRepository
}

// NewBookingsHandler constructs a BookingsHandler.
func NewBookingsHandler(s *server.Server, bookings *service.BookingService, repo *repository.BookingRepository) *BookingsHandler {
	// A booking entered by staff by hand is an offline sale: paid unless
	// stated otherwise.
	crud := NewCRUDHandler[model.Booking](s, repo, "booking",
		WithWriteDefaults[model.Booking](func(c echo.Context, values map[string]any) error {
			if _, ok := values["paid"]; !ok {
				values["paid"] = true
			}
			return nil
		}),
	)

	return &BookingsHandler{
		Handler:  NewHandler(s),
		CRUD:     crud,
		bookings: bookings,
		repo:     repo,
	}
}

// GetCheckoutSession opens a Stripe Checkout session for the tour.
func (h *BookingsHandler) GetCheckoutSession(c echo.Context) error {
	tourID, err := ParseIDParam(c, "tourId")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	session, err := h.bookings.CreateCheckoutSession(c.Request().Context(), user, tourID)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("No tour found with that ID", "")
		}
		return err
	}

	return c.JSON(http.StatusOK, Success(session))
}

// CheckoutSuccess records the booking after the Stripe success redirect,
// from the tour/user/price the session embedded in its success URL.
func (h *BookingsHandler) CheckoutSuccess(c echo.Context) error {
	tourID, err := uuid.Parse(c.QueryParam("tour"))
	if err != nil {
		return errs.NewBadRequestError("Invalid ID format", "INVALID_ID", nil)
	}
	userID, err := uuid.Parse(c.QueryParam("user"))
	if err != nil {
		return errs.NewBadRequestError("Invalid ID format", "INVALID_ID", nil)
	}
	price, err := strconv.ParseFloat(c.QueryParam("price"), 64)
	if err != nil || price < 0 {
		return errs.NewBadRequestError("Price must be a non-negative number.", "INVALID_PRICE", nil)
	}

	booking, err := h.bookings.CreateBookingFromCheckout(c.Request().Context(), tourID, userID, price)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, Success(booking))
}

// GetMyBookings lists the caller's bookings.
func (h *BookingsHandler) GetMyBookings(c echo.Context) error {
	user := middleware.CurrentUser(c)

	bookings, err := h.repo.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessList(bookings, len(bookings)))
}
