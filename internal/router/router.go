package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/handler"
	"github.com/ajjer/car-rental-api/internal/middleware"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while profile endpoints live under /v1 behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only mints a new
	// access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer token (revokes every session) or a
	// refresh_token body (revokes that one), so it stays outside the
	// protected group.
	g.POST("/logout", a.Logout)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireActive(users),
	)
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)
	auth.POST("/me/role", a.ToggleRole)
}

// RegisterPublic registers the unauthenticated browse endpoints: car
// search, car detail and the availability calendar. The caller passes
// the Redis cache middleware so hot read endpoints can be served from
// cache; pass nil to skip caching.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/cars", p.SearchCars, mws...)
	e.GET("/v1/cars/:id", p.GetCar, mws...)
	e.GET("/v1/cars/:id/availability", p.GetAvailability, mws...)
}
