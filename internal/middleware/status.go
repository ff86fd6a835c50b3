package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/model"
)

// userGetter is the slice of the user repository this middleware
// needs. Taking an interface keeps the gate testable without a
// database.
type userGetter interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RequireActive blocks mutating marketplace actions for FROZEN and
// BANNED accounts. The account status lives in the database rather
// than the token so admin freezes take effect immediately, which is
// why this middleware performs a lookup instead of trusting a claim.
// A freeze whose frozen_until has passed no longer blocks.
func RequireActive(users userGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := contextUserID(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
			}
			switch u.Status {
			case model.StatusBanned:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "account banned"})
			case model.StatusFrozen:
				if u.FrozenUntil == nil || u.FrozenUntil.After(time.Now().UTC()) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "account frozen"})
				}
			}
			return next(c)
		}
	}
}

// contextUserID converts the user_id context value set by JWTAuth
// into a uint64. The JWT library decodes numeric claims as float64.
func contextUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case string:
		return strconv.ParseUint(t, 10, 64)
	}
	return 0, echo.ErrUnauthorized
}
