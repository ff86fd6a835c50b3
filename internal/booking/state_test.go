package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
)

var now = d("2024-06-10")

func TestAcceptRejectHostOnly(t *testing.T) {
	end := d("2024-06-05")
	if err := CanTransition(model.BookingPending, model.BookingAccepted, ActorHost, end, now); err != nil {
		t.Fatalf("host accept from pending: %v", err)
	}
	if err := CanTransition(model.BookingPending, model.BookingAccepted, ActorRenter, end, now); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("renter accept: got %v, want ErrNotAllowed", err)
	}
	if err := CanTransition(model.BookingPending, model.BookingRejected, ActorRenter, end, now); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("renter reject: got %v, want ErrNotAllowed", err)
	}
	if err := CanTransition(model.BookingAccepted, model.BookingAccepted, ActorHost, end, now); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("accept from accepted: got %v, want ErrBadTransition", err)
	}
}

func TestCancelRenterOnly(t *testing.T) {
	end := d("2024-06-20")
	for _, from := range []string{model.BookingPending, model.BookingAccepted} {
		if err := CanTransition(from, model.BookingCanceled, ActorRenter, end, now); err != nil {
			t.Fatalf("renter cancel from %s: %v", from, err)
		}
		if err := CanTransition(from, model.BookingCanceled, ActorHost, end, now); !errors.Is(err, ErrNotAllowed) {
			t.Fatalf("host cancel from %s: got %v, want ErrNotAllowed", from, err)
		}
	}
}

func TestCancelCompletedAlwaysFails(t *testing.T) {
	err := CanTransition(model.BookingCompleted, model.BookingCanceled, ActorRenter, d("2024-06-05"), now)
	if !errors.Is(err, ErrAlreadyDone) {
		t.Fatalf("got %v, want ErrAlreadyDone", err)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	for _, from := range []string{model.BookingRejected, model.BookingCanceled, model.BookingCompleted} {
		for _, to := range []string{model.BookingAccepted, model.BookingRejected, model.BookingCanceled, model.BookingCompleted} {
			if err := CanTransition(from, to, ActorHost, d("2024-06-05"), now); !errors.Is(err, ErrAlreadyDone) {
				t.Errorf("%s -> %s: got %v, want ErrAlreadyDone", from, to, err)
			}
		}
	}
}

func TestCompleteGatedOnEndDate(t *testing.T) {
	// End date in the future: not completable yet.
	err := CanTransition(model.BookingAccepted, model.BookingCompleted, ActorHost, d("2024-06-15"), now)
	if !errors.Is(err, ErrNotFinishedYet) {
		t.Fatalf("got %v, want ErrNotFinishedYet", err)
	}
	// End date passed (or today): completable by host only.
	if err := CanTransition(model.BookingAccepted, model.BookingCompleted, ActorHost, d("2024-06-10"), now); err != nil {
		t.Fatalf("complete on end date: %v", err)
	}
	if err := CanTransition(model.BookingAccepted, model.BookingCompleted, ActorRenter, d("2024-06-05"), now); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("renter complete: got %v, want ErrNotAllowed", err)
	}
	// Only legal from ACCEPTED.
	if err := CanTransition(model.BookingPending, model.BookingCompleted, ActorHost, d("2024-06-05"), now); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("complete from pending: got %v, want ErrBadTransition", err)
	}
}

func TestUnknownTargetStatus(t *testing.T) {
	if err := CanTransition(model.BookingPending, "PAUSED", ActorHost, time.Time{}, now); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("got %v, want ErrBadTransition", err)
	}
}

func TestSystemMessageForcedRejection(t *testing.T) {
	plain := SystemMessage(model.BookingRejected, false)
	forced := SystemMessage(model.BookingRejected, true)
	if plain == "" || forced == "" || plain == forced {
		t.Fatalf("forced rejection must carry distinct text: %q vs %q", plain, forced)
	}
}
