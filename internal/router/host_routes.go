package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/handler"
	"github.com/ajjer/car-rental-api/internal/middleware"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// RegisterHost registers listing-management endpoints under /v1. All
// routes require a valid JWT, the HOST role and an account that is
// neither frozen nor banned.
func RegisterHost(e *echo.Echo, h *handler.HostHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("HOST"),
		middleware.RequireActive(users),
	)
	g.POST("/cars", h.CreateCar)
	g.PUT("/cars/:id", h.UpdateCar)
	g.DELETE("/cars/:id", h.DeleteCar)
	g.GET("/cars/mine", h.ListMyCars)
}
