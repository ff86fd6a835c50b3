package booking

import (
	"errors"
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
)

// Actor identifies who is attempting a transition relative to the
// booking: the renter who created it or the host who owns the car.
type Actor int

const (
	ActorRenter Actor = iota
	ActorHost
)

// Transition errors. Handlers translate ErrNotAllowed to 403 and the
// state errors to 400.
var (
	ErrNotAllowed     = errors.New("actor may not perform this transition")
	ErrBadTransition  = errors.New("illegal status transition")
	ErrAlreadyDone    = errors.New("booking already in a terminal state")
	ErrNotFinishedYet = errors.New("booking end date has not passed")
)

// terminal reports whether a status admits no further transitions.
func terminal(status string) bool {
	switch status {
	case model.BookingRejected, model.BookingCanceled, model.BookingCompleted:
		return true
	}
	return false
}

// CanTransition validates a requested transition of a booking from
// its current status to target, performed by actor, with now as the
// reference time for the completion gate. It returns nil when the
// transition is legal.
//
// The machine: PENDING -> {ACCEPTED, REJECTED, CANCELED};
// ACCEPTED -> {COMPLETED, CANCELED}; everything else is terminal.
// Accept, reject and complete are host actions; cancel is strictly a
// renter action.
func CanTransition(current, target string, actor Actor, endDate, now time.Time) error {
	if terminal(current) {
		return ErrAlreadyDone
	}
	switch target {
	case model.BookingAccepted, model.BookingRejected:
		if actor != ActorHost {
			return ErrNotAllowed
		}
		if current != model.BookingPending {
			return ErrBadTransition
		}
	case model.BookingCanceled:
		if actor != ActorRenter {
			return ErrNotAllowed
		}
		// PENDING and ACCEPTED both cancel; terminal states were
		// rejected above.
	case model.BookingCompleted:
		if actor != ActorHost {
			return ErrNotAllowed
		}
		if current != model.BookingAccepted {
			return ErrBadTransition
		}
		if Day(endDate).After(Day(now)) {
			return ErrNotFinishedYet
		}
	default:
		return ErrBadTransition
	}
	return nil
}

// SystemMessage returns the body of the chat message the system
// writes on a successful transition to target. forced marks a
// rejection caused by a conflicting accepted booking rather than an
// explicit host decision.
func SystemMessage(target string, forced bool) string {
	switch target {
	case model.BookingPending:
		return "New booking request submitted."
	case model.BookingAccepted:
		return "Your booking request has been accepted."
	case model.BookingRejected:
		if forced {
			return "Your booking request was rejected because an overlapping booking has been accepted."
		}
		return "Your booking request has been rejected."
	case model.BookingCanceled:
		return "The booking has been canceled by the renter."
	case model.BookingCompleted:
		return "The booking has been marked as completed."
	}
	return ""
}
