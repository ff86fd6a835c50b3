package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/booking"
	"github.com/ajjer/car-rental-api/internal/model"
	"github.com/ajjer/car-rental-api/internal/queue"
	"github.com/ajjer/car-rental-api/internal/repository"
	queue_publisher "github.com/ajjer/car-rental-api/internal/service"
)

// BookingHandler groups repositories required to create bookings,
// drive their state machine and list them. All methods assume that
// JWT authentication and role validation has already been performed
// by middleware. Each method runs critical DB operations inside a
// transaction to guarantee atomicity: the status change, the
// auto-reject cascade and the system chat message commit or roll
// back together.
type BookingHandler struct {
	CarRepo     *repository.CarRepo
	BookingRepo *repository.BookingRepo
	MessageRepo *repository.MessageRepo
	UserRepo    *repository.UserRepo
}

// NewBookingHandler constructs a new BookingHandler with the provided
// repositories. All dependencies must be non-nil.
func NewBookingHandler(carRepo *repository.CarRepo, bookingRepo *repository.BookingRepo, messageRepo *repository.MessageRepo, userRepo *repository.UserRepo) *BookingHandler {
	if carRepo == nil || bookingRepo == nil || messageRepo == nil || userRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		CarRepo:     carRepo,
		BookingRepo: bookingRepo,
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
	}
}

// publishEvent fires a lifecycle event after commit. Publishing is
// best effort: the booking is already durable, so a broker outage
// only costs the log line.
func publishEvent(b *model.Booking, car *model.Car, status, reason string) {
	ev := queue.BookingEvent{
		BookingID:  b.ID,
		Status:     status,
		CarID:      car.ID,
		CarBrand:   car.Brand,
		CarModel:   car.Model,
		RenterID:   b.RenterID,
		HostID:     car.OwnerID,
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		TotalPrice: b.TotalPrice,
		Reason:     reason,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingEvent(ctx, ev)
	}()
}

// CreateBooking handles POST /v1/bookings. The request body carries
// car_id, start_date and end_date (YYYY-MM-DD, both inclusive). On
// success it inserts a PENDING booking priced at price_per_day times
// the inclusive day count and writes the opening system message to
// the host, all in one transaction.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	renterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		CarID     uint64 `json:"car_id"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CarID == 0 || body.StartDate == "" || body.EndDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "car_id, start_date and end_date are required"})
	}
	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not precede start_date"})
	}
	if booking.Day(start).Before(booking.Day(time.Now())) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must not be in the past"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the car row first: competing creates and accepts on the
	// same car serialize here.
	if err := h.CarRepo.LockTx(ctx, tx, body.CarID); err != nil {
		if err == repository.ErrCarNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	car, err := h.CarRepo.GetByIDTx(ctx, tx, body.CarID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if car.OwnerID == renterID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot book your own car"})
	}

	active, err := h.BookingRepo.ListActiveByCarTx(ctx, tx, car.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	av := booking.Check(&car, active, start, end, booking.ModeRequest, 0)
	if !av.OK {
		if av.Reason == booking.ReasonConflictingBookings {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":                "requested dates are not available",
				"reason":               av.Reason,
				"conflicting_bookings": av.ConflictIDs,
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "car is not available for the requested dates",
			"reason": av.Reason,
		})
	}

	b := model.Booking{
		RenterID:   renterID,
		CarID:      car.ID,
		StartDate:  booking.Day(start),
		EndDate:    booking.Day(end),
		TotalPrice: booking.TotalPrice(car.PricePerDay, start, end),
		Status:     model.BookingPending,
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	if err := h.MessageRepo.CreateSystemTx(ctx, tx, renterID, car.OwnerID, b.ID,
		booking.SystemMessage(model.BookingPending, false)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishEvent(&b, &car, "requested", "")

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          b.ID,
		"status":      b.Status,
		"total_price": b.TotalPrice,
		"start_date":  b.StartDate.Format("2006-01-02"),
		"end_date":    b.EndDate.Format("2006-01-02"),
	})
}

// UpdateStatus handles PATCH /v1/bookings/:id/status. The body
// carries the target status (accepted/rejected/canceled/completed,
// case-insensitive) and an optional reason for rejections.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target := strings.ToUpper(strings.TrimSpace(body.Status))

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.BookingRepo.GetByIDTx(ctx, tx, bookingID)
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

	// Resolve the actor. Anyone who is neither the renter nor the
	// car's owner gets a 403 before the state machine even runs.
	var actor booking.Actor
	switch userID {
	case b.RenterID:
		actor = booking.ActorRenter
	case car.OwnerID:
		actor = booking.ActorHost
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this booking"})
	}

	if err := booking.CanTransition(b.Status, target, actor, b.EndDate, time.Now()); err != nil {
		switch err {
		case booking.ErrNotAllowed:
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	switch target {
	case model.BookingAccepted:
		return h.accept(c, tx, &committed, &b, &car)
	case model.BookingRejected:
		reason := strings.TrimSpace(body.Reason)
		var reasonPtr *string
		if reason != "" {
			reasonPtr = &reason
		}
		if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingRejected, reasonPtr); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		if err := h.MessageRepo.CreateSystemTx(ctx, tx, car.OwnerID, b.RenterID, b.ID,
			booking.SystemMessage(model.BookingRejected, false)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
		}
		committed = true
		publishEvent(&b, &car, "rejected", reason)
		return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": model.BookingRejected})

	case model.BookingCanceled:
		if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingCanceled, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		if err := h.MessageRepo.CreateSystemTx(ctx, tx, b.RenterID, car.OwnerID, b.ID,
			booking.SystemMessage(model.BookingCanceled, false)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
		}
		committed = true
		publishEvent(&b, &car, "canceled", "")
		return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": model.BookingCanceled})

	case model.BookingCompleted:
		if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingCompleted, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		if err := h.MessageRepo.CreateSystemTx(ctx, tx, car.OwnerID, b.RenterID, b.ID,
			booking.SystemMessage(model.BookingCompleted, false)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
		}
		committed = true
		publishEvent(&b, &car, "completed", "")
		return c.JSON(http.StatusOK, echo.Map{"id": b.ID, "status": model.BookingCompleted})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
}

// accept finishes the ACCEPTED transition: re-check accepted overlaps
// under the car row lock, flip this booking, auto-reject every
// overlapping pending rival with a conflict reason, and write the
// system messages. The bookings_no_overlap trigger is bypassed for
// the duration of the cascade and re-armed unconditionally, including
// on error paths, via the deferred clear.
func (h *BookingHandler) accept(c echo.Context, tx *sql.Tx, committed *bool, b *model.Booking, car *model.Car) error {
	ctx := c.Request().Context()

	if err := h.CarRepo.LockTx(ctx, tx, car.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	active, err := h.BookingRepo.ListActiveByCarTx(ctx, tx, car.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	av := booking.Check(car, active, b.StartDate, b.EndDate, booking.ModeAccept, b.ID)
	if !av.OK {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":                "an accepted booking already covers these dates",
			"reason":               av.Reason,
			"conflicting_bookings": av.ConflictIDs,
		})
	}

	if err := h.BookingRepo.BypassOverlapGuardTx(ctx, tx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	guardCleared := false
	defer func() {
		if !guardCleared {
			_ = h.BookingRepo.ClearOverlapGuardTx(ctx, tx)
		}
	}()

	if err := h.BookingRepo.UpdateStatusTx(ctx, tx, b.ID, model.BookingAccepted, nil); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	losers := booking.OverlappingPending(active, b.StartDate, b.EndDate, b.ID)
	if len(losers) > 0 {
		reason := "dates conflict with a booking the host accepted"
		if err := h.BookingRepo.RejectManyTx(ctx, tx, losers, reason); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auto-reject failed"})
		}
		// One system message per auto-rejected rival, addressed to
		// its renter.
		byID := make(map[uint64]model.Booking, len(active))
		for _, a := range active {
			byID[a.ID] = a
		}
		for _, id := range losers {
			rival := byID[id]
			if err := h.MessageRepo.CreateSystemTx(ctx, tx, car.OwnerID, rival.RenterID, id,
				booking.SystemMessage(model.BookingRejected, true)); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
			}
		}
	}

	if err := h.MessageRepo.CreateSystemTx(ctx, tx, car.OwnerID, b.RenterID, b.ID,
		booking.SystemMessage(model.BookingAccepted, false)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
	}

	if err := h.BookingRepo.ClearOverlapGuardTx(ctx, tx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	guardCleared = true

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	*committed = true

	publishEvent(b, car, "accepted", "")
	return c.JSON(http.StatusOK, echo.Map{
		"id":            b.ID,
		"status":        model.BookingAccepted,
		"auto_rejected": losers,
	})
}

// ListMine handles GET /v1/bookings/user: the caller's bookings as a
// renter.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByRenter(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// ListForHost handles GET /v1/bookings/host: requests on the caller's
// cars.
func (h *BookingHandler) ListForHost(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByHost(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// GetBooking handles GET /v1/bookings/:id. Only the booking's two
// parties may read it.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	det, err := h.BookingRepo.GetDetail(c.Request().Context(), bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if det.RenterID != userID && det.HostID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this booking"})
	}
	return c.JSON(http.StatusOK, det)
}
