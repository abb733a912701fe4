// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/handler"
	"github.com/wandero/tourbook/internal/middleware"
	"github.com/wandero/tourbook/internal/model"
)

// New builds the Echo instance: global middleware, the error funnel, the
// system routes, and the /api/v1 resource groups.
func New(m *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	// Order matters: the transaction must exist before enrichment, and
	// the request id before the context logger.
	e.Use(m.Tracing.NewRelicMiddleware())
	e.Use(middleware.RequestID())
	e.Use(m.Global.CORS())
	e.Use(m.Global.Secure())
	e.Use(m.Global.Recover())
	e.Use(m.ContextEnhancer.EnhanceContext())
	e.Use(m.Tracing.EnhanceTracing())
	e.Use(m.Global.RequestLogger())

	registerSystemRoutes(e, h)

	api := e.Group("/api/v1", m.RateLimit.Limit("api", 100, time.Hour))
	registerUserRoutes(api, m, h)
	registerTourRoutes(api, m, h)
	registerReviewRoutes(api, m, h)
	registerBookingRoutes(api, m, h)

	return e
}

func registerUserRoutes(api *echo.Group, m *middleware.Middlewares, h *handler.Handlers) {
	users := api.Group("/users")

	// Credential endpoints get a tighter budget than the API-wide one.
	authLimit := m.RateLimit.Limit("auth", 10, 15*time.Minute)

	users.POST("/signup", handler.Handle(h.Auth.Handler, h.Auth.Signup, 201,
		func() *handler.SignupRequest { return &handler.SignupRequest{} }), authLimit)
	users.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, 200,
		func() *handler.LoginRequest { return &handler.LoginRequest{} }), authLimit)
	users.GET("/logout", h.Auth.Logout)
	users.POST("/forgot-password", handler.Handle(h.Auth.Handler, h.Auth.ForgotPassword, 200,
		func() *handler.ForgotPasswordRequest { return &handler.ForgotPasswordRequest{} }), authLimit)
	users.PATCH("/reset-password/:token", handler.Handle(h.Auth.Handler, h.Auth.ResetPassword, 200,
		func() *handler.ResetPasswordRequest { return &handler.ResetPasswordRequest{} }))

	// Everything below requires a logged-in account.
	me := users.Group("", m.Auth.Protect)
	me.PATCH("/update-my-password", handler.Handle(h.Auth.Handler, h.Auth.UpdatePassword, 200,
		func() *handler.UpdatePasswordRequest { return &handler.UpdatePasswordRequest{} }))
	me.GET("/me", h.Users.GetMe)
	me.PATCH("/update-me", h.Users.UpdateMe)
	me.DELETE("/delete-me", handler.HandleNoContent(h.Users.Handler, h.Users.DeleteMe, 204,
		func() *handler.DeleteMeRequest { return &handler.DeleteMeRequest{} }))

	admin := users.Group("", m.Auth.Protect, m.Auth.RestrictTo(model.RoleAdmin))
	admin.GET("", h.Users.CRUD.GetAll())
	admin.GET("/:id", h.Users.CRUD.GetOne())
	admin.PATCH("/:id", h.Users.CRUD.Update())
	admin.DELETE("/:id", h.Users.CRUD.Delete())
}

func registerTourRoutes(api *echo.Group, m *middleware.Middlewares, h *handler.Handlers) {
	tours := api.Group("/tours")

	// Public reads carry SoftAuth so the request log and traces name the
	// caller when a token is present.
	tours.GET("", h.Tours.CRUD.GetAll(), m.Auth.SoftAuth)
	tours.GET("/top-5-cheap", h.Tours.TopCheap(), m.Auth.SoftAuth)
	tours.GET("/stats", h.Tours.Stats, m.Auth.SoftAuth)
	tours.GET("/monthly-plan/:year", h.Tours.MonthlyPlan,
		m.Auth.Protect, m.Auth.RestrictTo(model.RoleAdmin, model.RoleLeadGuide, model.RoleGuide))
	tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", h.Tours.Within, m.Auth.SoftAuth)
	tours.GET("/distances/:latlng/unit/:unit", h.Tours.Distances, m.Auth.SoftAuth)
	tours.GET("/:id", h.Tours.GetTour, m.Auth.SoftAuth)

	staff := m.Auth.RestrictTo(model.RoleAdmin, model.RoleLeadGuide)
	tours.POST("", h.Tours.CRUD.Create(), m.Auth.Protect, staff)
	tours.PATCH("/:id", h.Tours.CRUD.Update(), m.Auth.Protect, staff)
	tours.DELETE("/:id", h.Tours.CRUD.Delete(), m.Auth.Protect, staff)
}

func registerReviewRoutes(api *echo.Group, m *middleware.Middlewares, h *handler.Handlers) {
	// Nested under a tour.
	nested := api.Group("/tours/:tourId/reviews", m.Auth.Protect)
	nested.GET("", h.Reviews.CRUD.GetAll())
	nested.POST("", h.Reviews.Create, m.Auth.RestrictTo(model.RoleUser))

	// Flat.
	reviews := api.Group("/reviews", m.Auth.Protect)
	reviews.GET("", h.Reviews.CRUD.GetAll())
	reviews.GET("/:id", h.Reviews.CRUD.GetOne())
	reviews.POST("", h.Reviews.Create, m.Auth.RestrictTo(model.RoleUser))
	reviews.PATCH("/:id", h.Reviews.Update, m.Auth.RestrictTo(model.RoleUser, model.RoleAdmin))
	reviews.DELETE("/:id", h.Reviews.Delete, m.Auth.RestrictTo(model.RoleUser, model.RoleAdmin))
}

func registerBookingRoutes(api *echo.Group, m *middleware.Middlewares, h *handler.Handlers) {
	bookings := api.Group("/bookings", m.Auth.Protect)

	bookings.GET("/checkout-session/:tourId", h.Bookings.GetCheckoutSession)
	bookings.GET("/checkout-success", h.Bookings.CheckoutSuccess)
	bookings.GET("/my", h.Bookings.GetMyBookings)

	staff := m.Auth.RestrictTo(model.RoleAdmin, model.RoleLeadGuide)
	bookings.GET("", h.Bookings.CRUD.GetAll(), staff)
	bookings.POST("", h.Bookings.CRUD.Create(), staff)
	bookings.GET("/:id", h.Bookings.CRUD.GetOne(), staff)
	bookings.PATCH("/:id", h.Bookings.CRUD.Update(), staff)
	bookings.DELETE("/:id", h.Bookings.CRUD.Delete(), staff)
}
