package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/handler"
	"github.com/ajjer/car-rental-api/internal/middleware"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// RegisterBookings registers the booking lifecycle endpoints under
// /v1. Creating a booking is renter-only; status transitions are open
// to both roles because the handler decides per booking whether the
// caller acts as renter or host.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, users *repository.UserRepo) {
	renter := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("RENTER"),
		middleware.RequireActive(users),
	)
	renter.POST("/bookings", h.CreateBooking)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("RENTER", "HOST"),
		middleware.RequireActive(users),
	)
	g.PATCH("/bookings/:id/status", h.UpdateStatus)
	g.GET("/bookings/user", h.ListMine)
	g.GET("/bookings/host", h.ListForHost)
	g.GET("/bookings/:id", h.GetBooking)
}
