package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/model"
	"github.com/ajjer/car-rental-api/internal/repository"
)

// RatingHandler lets the two parties of a completed booking rate each
// other once, and lets renters optionally attach a car rating in the
// same call.
type RatingHandler struct {
	RatingRepo  *repository.RatingRepo
	BookingRepo *repository.BookingRepo
	CarRepo     *repository.CarRepo
}

// NewRatingHandler constructs a new RatingHandler.
func NewRatingHandler(ratingRepo *repository.RatingRepo, bookingRepo *repository.BookingRepo, carRepo *repository.CarRepo) *RatingHandler {
	if ratingRepo == nil || bookingRepo == nil || carRepo == nil {
		panic("nil repository passed to NewRatingHandler")
	}
	return &RatingHandler{RatingRepo: ratingRepo, BookingRepo: bookingRepo, CarRepo: carRepo}
}

// CreateRating handles POST /v1/ratings. The body carries booking_id,
// score (1-5), an optional comment and, when the rater is the renter,
// an optional car_score/car_comment pair stored against the car in
// the same transaction.
func (h *RatingHandler) CreateRating(c echo.Context) error {
	raterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingID  uint64 `json:"booking_id"`
		Score      uint8  `json:"score"`
		Comment    string `json:"comment"`
		CarScore   uint8  `json:"car_score"`
		CarComment string `json:"car_comment"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}
	if body.Score < 1 || body.Score > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 1 and 5"})
	}
	if body.CarScore > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "car_score must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	b, err := h.BookingRepo.GetByID(ctx, body.BookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.Status != model.BookingCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not completed"})
	}
	car, err := h.CarRepo.GetAnyByID(ctx, b.CarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// The ratee is always the other party.
	var rateeID uint64
	switch raterID {
	case b.RenterID:
		rateeID = car.OwnerID
	case car.OwnerID:
		rateeID = b.RenterID
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this booking"})
	}

	exists, err := h.RatingRepo.Exists(ctx, b.ID, raterID, rateeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already rated"})
	}

	tx, err := h.RatingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rating := model.Rating{
		BookingID: b.ID,
		RaterID:   raterID,
		RateeID:   rateeID,
		Score:     body.Score,
		Comment:   body.Comment,
	}
	if err := h.RatingRepo.CreateTx(ctx, tx, &rating); err != nil {
		if err == repository.ErrRatingExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already rated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create rating failed"})
	}

	// Car ratings only make sense from the renter's side.
	if body.CarScore >= 1 && raterID == b.RenterID {
		carRating := model.CarRating{
			BookingID: b.ID,
			CarID:     b.CarID,
			RaterID:   raterID,
			Score:     body.CarScore,
			Comment:   body.CarComment,
		}
		if err := h.RatingRepo.CreateCarRatingTx(ctx, tx, &carRating); err != nil {
			if err == repository.ErrRatingExists {
				return c.JSON(http.StatusConflict, echo.Map{"error": "car already rated for this booking"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car rating failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         rating.ID,
		"booking_id": rating.BookingID,
		"ratee_id":   rating.RateeID,
		"score":      rating.Score,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckRated handles GET /v1/ratings/check/:booking_id so clients can
// hide the rating form once the caller has already rated.
func (h *RatingHandler) CheckRated(c echo.Context) error {
	raterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseID(c, "booking_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	car, err := h.CarRepo.GetAnyByID(ctx, b.CarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var rateeID uint64
	switch raterID {
	case b.RenterID:
		rateeID = car.OwnerID
	case car.OwnerID:
		rateeID = b.RenterID
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this booking"})
	}
	exists, err := h.RatingRepo.Exists(ctx, bookingID, raterID, rateeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": bookingID, "rated": exists})
}
