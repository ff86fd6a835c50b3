package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/booking"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// PublicHandler exposes unauthenticated browse endpoints returning
// sanitized listing data for guests, plus the availability calendar.
type PublicHandler struct {
	CarRepo     *repository.CarRepo
	BookingRepo *repository.BookingRepo
	RatingRepo  *repository.RatingRepo
}

// NewPublicHandler constructs a new PublicHandler.
func NewPublicHandler(carRepo *repository.CarRepo, bookingRepo *repository.BookingRepo, ratingRepo *repository.RatingRepo) *PublicHandler {
	if carRepo == nil || bookingRepo == nil || ratingRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{CarRepo: carRepo, BookingRepo: bookingRepo, RatingRepo: ratingRepo}
}

// SearchCars handles GET /v1/cars. Supported query parameters:
// brand, model, location, price_min, price_max, date_from, date_to,
// page, page_size.
func (h *PublicHandler) SearchCars(c echo.Context) error {
	q := repository.CarSearchQuery{
		Brand:    strings.TrimSpace(c.QueryParam("brand")),
		Model:    strings.TrimSpace(c.QueryParam("model")),
		Location: strings.TrimSpace(c.QueryParam("location")),
		Page:     1,
		PageSize: 20,
	}
	if v := c.QueryParam("price_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			q.PriceMin = f
		}
	}
	if v := c.QueryParam("price_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			q.PriceMax = f
		}
	}
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_from must be YYYY-MM-DD"})
		}
		q.DateFrom = &t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to must be YYYY-MM-DD"})
		}
		q.DateTo = &t
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Page = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			q.PageSize = n
		}
	}

	rows, total, err := h.CarRepo.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"cars":      rows,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

// GetCar handles GET /v1/cars/:id. The response includes the car's
// average rating so listing pages need a single round trip.
func (h *PublicHandler) GetCar(c echo.Context) error {
	carID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	ctx := c.Request().Context()
	car, err := h.CarRepo.GetByID(ctx, carID)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	avg, count, err := h.RatingRepo.CarAverage(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                 car.ID,
		"owner_id":           car.OwnerID,
		"brand":              car.Brand,
		"model":              car.Model,
		"year":               car.Year,
		"color":              car.Color,
		"mileage":            car.Mileage,
		"price_per_day":      car.PricePerDay,
		"location":           car.Location,
		"availability_start": car.AvailabilityStart.Format("2006-01-02"),
		"availability_end":   car.AvailabilityEnd.Format("2006-01-02"),
		"status":             car.Status,
		"rating_avg":         avg,
		"rating_count":       count,
	})
}

// GetAvailability handles GET /v1/cars/:id/availability. It returns
// the day-by-day calendar from the later of (today, window start)
// through the window end, with days covered by a pending or accepted
// booking marked unavailable. Responses are served through the Redis
// cache middleware with a short TTL.
func (h *PublicHandler) GetAvailability(c echo.Context) error {
	carID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	ctx := c.Request().Context()
	car, err := h.CarRepo.GetByID(ctx, carID)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	active, err := h.BookingRepo.ListActiveByCar(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	days := booking.Calendar(&car, active, time.Now())
	return c.JSON(http.StatusOK, echo.Map{
		"car_id":   carID,
		"calendar": days,
	})
}
