package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/repository"
)

// AdminHandler covers moderation: listing users, freezing and banning
// accounts, and pulling listings off the marketplace. All routes are
// gated behind the ADMIN role by middleware.
type AdminHandler struct {
	UserRepo  *repository.UserRepo
	CarRepo   *repository.CarRepo
	TokenRepo *repository.TokenRepo
}

// NewAdminHandler constructs a new AdminHandler.
func NewAdminHandler(userRepo *repository.UserRepo, carRepo *repository.CarRepo, tokenRepo *repository.TokenRepo) *AdminHandler {
	if userRepo == nil || carRepo == nil || tokenRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{UserRepo: userRepo, CarRepo: carRepo, TokenRepo: tokenRepo}
}

// ListUsers handles GET /v1/admin/users with page/page_size paging.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page := 1
	pageSize := 50
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			pageSize = n
		}
	}
	users, err := h.UserRepo.List(c.Request().Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		row := echo.Map{
			"id":     u.ID,
			"name":   u.Name,
			"email":  u.Email,
			"role":   u.Role,
			"status": u.Status,
		}
		if u.FrozenUntil != nil {
			row["frozen_until"] = u.FrozenUntil.Format(time.RFC3339)
		}
		if u.BanReason != nil {
			row["ban_reason"] = *u.BanReason
		}
		out = append(out, row)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "page": page, "page_size": pageSize})
}

// FreezeUser handles POST /v1/admin/users/:id/freeze. The body
// carries days (default 7); a frozen user keeps read access but
// cannot act until the freeze expires.
func (h *AdminHandler) FreezeUser(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body struct {
		Days int `json:"days"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Days <= 0 {
		body.Days = 7
	}
	until := time.Now().UTC().AddDate(0, 0, body.Days)
	if err := h.UserRepo.Freeze(c.Request().Context(), userID, until); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "freeze failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": userID, "frozen_until": until.Format(time.RFC3339)})
}

// UnfreezeUser handles POST /v1/admin/users/:id/unfreeze.
func (h *AdminHandler) UnfreezeUser(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.UserRepo.Unfreeze(c.Request().Context(), userID); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unfreeze failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": userID, "status": "ACTIVE"})
}

// BanUser handles POST /v1/admin/users/:id/ban. Banning revokes every
// refresh token so the user cannot mint new access tokens; their
// current access token dies at its regular expiry.
func (h *AdminHandler) BanUser(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	ctx := c.Request().Context()
	if err := h.UserRepo.Ban(ctx, userID, reason); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ban failed"})
	}
	if err := h.TokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token revocation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": userID, "status": "BANNED"})
}

// DelistCar handles POST /v1/admin/cars/:id/delist. A delisted car
// disappears from search and stays delisted even if the owner edits
// it.
func (h *AdminHandler) DelistCar(c echo.Context) error {
	carID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	if err := h.CarRepo.Delist(c.Request().Context(), carID); err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delist failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": carID, "status": "DELISTED"})
}
