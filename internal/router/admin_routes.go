package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/handler"
	"github.com/ajjer/car-rental-api/internal/middleware"
)

// RegisterAdmin registers moderation endpoints under /v1/admin. Only
// the ADMIN role may reach these.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/users", h.ListUsers)
	g.POST("/users/:id/freeze", h.FreezeUser)
	g.POST("/users/:id/unfreeze", h.UnfreezeUser)
	g.POST("/users/:id/ban", h.BanUser)
	g.POST("/cars/:id/delist", h.DelistCar)
}
