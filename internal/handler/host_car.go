package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/booking"
	"github.com/ajjer/car-rental-api/internal/model"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// HostHandler bundles repositories for hosts to manage their listings.
type HostHandler struct {
	CarRepo     *repository.CarRepo
	BookingRepo *repository.BookingRepo
}

// NewHostHandler constructs a new HostHandler and panics if any
// dependency is nil.
func NewHostHandler(carRepo *repository.CarRepo, bookingRepo *repository.BookingRepo) *HostHandler {
	if carRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewHostHandler")
	}
	return &HostHandler{CarRepo: carRepo, BookingRepo: bookingRepo}
}

type carBody struct {
	Brand             string  `json:"brand"`
	Model             string  `json:"model"`
	Year              uint16  `json:"year"`
	Plate             string  `json:"plate"`
	Color             string  `json:"color"`
	Mileage           uint32  `json:"mileage"`
	PricePerDay       float64 `json:"price_per_day"`
	Location          string  `json:"location"`
	AvailabilityStart string  `json:"availability_start"` // YYYY-MM-DD
	AvailabilityEnd   string  `json:"availability_end"`   // YYYY-MM-DD
	Status            string  `json:"status"`
}

// validateCarBody checks required fields and parses the availability
// window. Returns a user-facing error message when invalid.
func validateCarBody(b *carBody) (start, end time.Time, msg string) {
	if strings.TrimSpace(b.Brand) == "" || strings.TrimSpace(b.Model) == "" ||
		strings.TrimSpace(b.Plate) == "" || b.Year == 0 {
		return start, end, "brand, model, year and plate are required"
	}
	if b.PricePerDay <= 0 {
		return start, end, "price_per_day must be greater than zero"
	}
	var err error
	start, err = time.Parse("2006-01-02", b.AvailabilityStart)
	if err != nil {
		return start, end, "availability_start must be YYYY-MM-DD"
	}
	end, err = time.Parse("2006-01-02", b.AvailabilityEnd)
	if err != nil {
		return start, end, "availability_end must be YYYY-MM-DD"
	}
	if end.Before(start) {
		return start, end, "availability_end must not precede availability_start"
	}
	return start, end, ""
}

// CreateCar handles POST /v1/cars. New listings start AVAILABLE
// unless the host explicitly sets UNAVAILABLE.
func (h *HostHandler) CreateCar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body carBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, end, msg := validateCarBody(&body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status != model.CarUnavailable {
		status = model.CarAvailable
	}
	car := model.Car{
		OwnerID:           ownerID,
		Brand:             strings.TrimSpace(body.Brand),
		Model:             strings.TrimSpace(body.Model),
		Year:              body.Year,
		Plate:             strings.TrimSpace(body.Plate),
		Color:             strings.TrimSpace(body.Color),
		Mileage:           body.Mileage,
		PricePerDay:       body.PricePerDay,
		Location:          strings.TrimSpace(body.Location),
		AvailabilityStart: start,
		AvailabilityEnd:   end,
		Status:            status,
	}
	if err := h.CarRepo.Create(c.Request().Context(), &car); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": car.ID})
}

// UpdateCar handles PUT /v1/cars/:id. Only the owner may update, and
// an admin-delisted car stays delisted no matter what status the
// body carries.
func (h *HostHandler) UpdateCar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var body carBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, end, msg := validateCarBody(&body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	existing, err := h.CarRepo.GetByID(ctx, carID)
	if err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if existing.Status == model.CarDelisted {
		status = model.CarDelisted
	} else if status != model.CarUnavailable {
		status = model.CarAvailable
	}
	car := model.Car{
		ID:                carID,
		Brand:             strings.TrimSpace(body.Brand),
		Model:             strings.TrimSpace(body.Model),
		Year:              body.Year,
		Plate:             strings.TrimSpace(body.Plate),
		Color:             strings.TrimSpace(body.Color),
		Mileage:           body.Mileage,
		PricePerDay:       body.PricePerDay,
		Location:          strings.TrimSpace(body.Location),
		AvailabilityStart: start,
		AvailabilityEnd:   end,
		Status:            status,
	}
	if err := h.CarRepo.UpdateByOwner(ctx, &car, ownerID); err != nil {
		switch err {
		case repository.ErrCarNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your car"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": carID})
}

// DeleteCar handles DELETE /v1/cars/:id (soft delete). A car with an
// accepted future booking cannot be removed out from under the
// renter.
func (h *HostHandler) DeleteCar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	ctx := c.Request().Context()
	active, err := h.BookingRepo.ListActiveByCar(ctx, carID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	today := booking.Day(time.Now())
	for _, b := range active {
		if b.Status == model.BookingAccepted && !booking.Day(b.EndDate).Before(today) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "car has an accepted upcoming booking"})
		}
	}
	if err := h.CarRepo.SoftDeleteByOwner(ctx, carID, ownerID); err != nil {
		switch err {
		case repository.ErrCarNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your car"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete car failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyCars handles GET /v1/cars/mine.
func (h *HostHandler) ListMyCars(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cars, err := h.CarRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(cars))
	for _, car := range cars {
		out = append(out, echo.Map{
			"id":                 car.ID,
			"brand":              car.Brand,
			"model":              car.Model,
			"year":               car.Year,
			"plate":              car.Plate,
			"color":              car.Color,
			"mileage":            car.Mileage,
			"price_per_day":      car.PricePerDay,
			"location":           car.Location,
			"availability_start": car.AvailabilityStart.Format("2006-01-02"),
			"availability_end":   car.AvailabilityEnd.Format("2006-01-02"),
			"status":             car.Status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"cars": out})
}
