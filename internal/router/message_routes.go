package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/handler"
	"github.com/ajjer/car-rental-api/internal/middleware"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// RegisterMessages registers the direct-message endpoints under /v1.
// Both roles can message; frozen and banned accounts cannot.
func RegisterMessages(e *echo.Echo, h *handler.MessageHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("RENTER", "HOST"),
		middleware.RequireActive(users),
	)
	g.POST("/messages", h.Send)
	// The static unread route must not be swallowed by :user_id, so it
	// lives under its own prefix.
	g.GET("/messages/unread/count", h.UnreadCount)
	g.GET("/messages/:user_id", h.Conversation)
	g.POST("/messages/:user_id/read", h.MarkRead)
}

// RegisterRatings registers the post-booking rating endpoints under
// /v1 for both roles.
func RegisterRatings(e *echo.Echo, h *handler.RatingHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("RENTER", "HOST"),
		middleware.RequireActive(users),
	)
	g.POST("/ratings", h.CreateRating)
	g.GET("/ratings/check/:booking_id", h.CheckRated)
}
