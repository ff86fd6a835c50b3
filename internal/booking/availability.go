package booking

import (
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
)

// ConflictMode selects which booking statuses block a date range.
// The two modes are intentionally different: a new request is blocked
// by anything still in flight (PENDING or ACCEPTED), while a host
// accepting one of several competing requests is blocked only by
// already-ACCEPTED bookings — the pending rivals are what the accept
// cascade auto-rejects.
type ConflictMode int

const (
	// ModeRequest applies when a renter creates a booking request.
	ModeRequest ConflictMode = iota
	// ModeAccept applies when a host accepts a pending request.
	ModeAccept
)

// Blocks reports whether a booking with the given status counts as a
// conflict under this mode.
func (m ConflictMode) Blocks(status string) bool {
	switch m {
	case ModeAccept:
		return status == model.BookingAccepted
	default:
		return status == model.BookingPending || status == model.BookingAccepted
	}
}

// Reasons returned by Check when a range is not available.
const (
	ReasonCarNotAvailable     = "carNotAvailable"
	ReasonOutsideWindow       = "outsideAvailabilityWindow"
	ReasonConflictingBookings = "conflictingBookings"
)

// Availability is the outcome of an availability check. When OK is
// false, Reason names the first failed rule and ConflictIDs lists the
// bookings that blocked the range (only for ReasonConflictingBookings).
type Availability struct {
	OK          bool     `json:"available"`
	Reason      string   `json:"reason,omitempty"`
	ConflictIDs []uint64 `json:"conflicting_bookings,omitempty"`
}

// Check determines whether [start, end] can be booked (or accepted)
// on the given car. bookings must contain the car's non-terminal
// bookings; rows whose status the mode does not block are ignored, as
// is the booking identified by excludeID (the one being accepted).
func Check(car *model.Car, bookings []model.Booking, start, end time.Time, mode ConflictMode, excludeID uint64) Availability {
	if car.Status != model.CarAvailable || car.IsDeleted {
		return Availability{Reason: ReasonCarNotAvailable}
	}
	if !WithinWindow(start, end, car.AvailabilityStart, car.AvailabilityEnd) {
		return Availability{Reason: ReasonOutsideWindow}
	}
	var conflicts []uint64
	for _, b := range bookings {
		if b.ID == excludeID || !mode.Blocks(b.Status) {
			continue
		}
		if Overlaps(start, end, b.StartDate, b.EndDate) {
			conflicts = append(conflicts, b.ID)
		}
	}
	if len(conflicts) > 0 {
		return Availability{Reason: ReasonConflictingBookings, ConflictIDs: conflicts}
	}
	return Availability{OK: true}
}

// OverlappingPending returns the IDs of PENDING bookings (other than
// excludeID) whose ranges overlap [start, end]. The accept cascade
// auto-rejects exactly this set.
func OverlappingPending(bookings []model.Booking, start, end time.Time, excludeID uint64) []uint64 {
	var ids []uint64
	for _, b := range bookings {
		if b.ID == excludeID || b.Status != model.BookingPending {
			continue
		}
		if Overlaps(start, end, b.StartDate, b.EndDate) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}
