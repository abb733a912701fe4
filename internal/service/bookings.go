package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/server"
)

// BookingService implements the checkout flow. Payment collection goes
// through Stripe Checkout; the booking row is written by the success
// redirect.
type BookingService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewBookingService constructs the booking service and configures the
// Stripe client key.
func NewBookingService(s *server.Server, repos *repository.Repositories) *BookingService {
	stripe.Key = s.Config.Integration.StripeSecretKey
	return &BookingService{
		server: s,
		repos:  repos,
	}
}

// CheckoutSession is the subset of the Stripe session the client needs.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession opens a Stripe Checkout session for one seat on
// the tour, priced at the tour's current price.
func (b *BookingService) CreateCheckoutSession(ctx context.Context, user *model.User, tourID uuid.UUID) (*CheckoutSession, error) {
	tour, err := b.repos.Tours.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(b.server.Config.Integration.FrontendBaseURL, "/")
	successURL := fmt.Sprintf("%s/?tour=%s&user=%s&price=%.2f", base, tour.ID, user.ID, tour.Price)
	cancelURL := fmt.Sprintf("%s/tour/%s", base, tour.Slug)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(tour.ID.String()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(tour.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
						Description: stripe.String(tour.Summary),
					},
				},
			},
		},
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// CreateBookingFromCheckout records a paid booking after the checkout
// success redirect, capturing the price at purchase time.
func (b *BookingService) CreateBookingFromCheckout(ctx context.Context, tourID, userID uuid.UUID, price float64) (*model.Booking, error) {
	return b.repos.Bookings.Create(ctx, map[string]any{
		"tour_id": tourID,
		"user_id": userID,
		"price":   price,
		"paid":    true,
	})
}
