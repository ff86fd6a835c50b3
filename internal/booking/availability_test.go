package booking

import (
	"testing"

	"github.com/ajjer/car-rental-api/internal/model"
)

func testCar() *model.Car {
	return &model.Car{
		ID:                7,
		OwnerID:           2,
		PricePerDay:       100,
		AvailabilityStart: d("2024-06-01"),
		AvailabilityEnd:   d("2024-06-30"),
		Status:            model.CarAvailable,
	}
}

func TestCheckCarNotAvailable(t *testing.T) {
	car := testCar()
	car.Status = model.CarUnavailable
	av := Check(car, nil, d("2024-06-02"), d("2024-06-04"), ModeRequest, 0)
	if av.OK || av.Reason != ReasonCarNotAvailable {
		t.Fatalf("got %+v, want carNotAvailable", av)
	}

	car = testCar()
	car.IsDeleted = true
	av = Check(car, nil, d("2024-06-02"), d("2024-06-04"), ModeRequest, 0)
	if av.OK || av.Reason != ReasonCarNotAvailable {
		t.Fatalf("soft-deleted car: got %+v, want carNotAvailable", av)
	}
}

func TestCheckOutsideWindow(t *testing.T) {
	av := Check(testCar(), nil, d("2024-06-25"), d("2024-07-02"), ModeRequest, 0)
	if av.OK || av.Reason != ReasonOutsideWindow {
		t.Fatalf("got %+v, want outsideAvailabilityWindow", av)
	}
}

func TestCheckRequestBlockedByPendingAndAccepted(t *testing.T) {
	bookings := []model.Booking{
		{ID: 1, Status: model.BookingPending, StartDate: d("2024-06-03"), EndDate: d("2024-06-05")},
		{ID: 2, Status: model.BookingAccepted, StartDate: d("2024-06-10"), EndDate: d("2024-06-12")},
		{ID: 3, Status: model.BookingRejected, StartDate: d("2024-06-03"), EndDate: d("2024-06-05")},
	}
	// Overlaps the pending booking only.
	av := Check(testCar(), bookings, d("2024-06-05"), d("2024-06-06"), ModeRequest, 0)
	if av.OK || av.Reason != ReasonConflictingBookings {
		t.Fatalf("got %+v, want conflict", av)
	}
	if len(av.ConflictIDs) != 1 || av.ConflictIDs[0] != 1 {
		t.Fatalf("conflict ids = %v, want [1]", av.ConflictIDs)
	}
	// Rejected bookings never block.
	av = Check(testCar(), bookings[2:], d("2024-06-03"), d("2024-06-05"), ModeRequest, 0)
	if !av.OK {
		t.Fatalf("rejected booking should not block: %+v", av)
	}
}

func TestCheckAcceptIgnoresPendingRivals(t *testing.T) {
	bookings := []model.Booking{
		{ID: 1, Status: model.BookingPending, StartDate: d("2024-06-01"), EndDate: d("2024-06-05")},
		{ID: 2, Status: model.BookingPending, StartDate: d("2024-06-03"), EndDate: d("2024-06-07")},
	}
	// Accepting booking 1: the pending rival overlaps but does not block.
	av := Check(testCar(), bookings, d("2024-06-01"), d("2024-06-05"), ModeAccept, 1)
	if !av.OK {
		t.Fatalf("pending rival must not block an accept: %+v", av)
	}
	// An accepted overlap does block.
	bookings[1].Status = model.BookingAccepted
	av = Check(testCar(), bookings, d("2024-06-01"), d("2024-06-05"), ModeAccept, 1)
	if av.OK || av.Reason != ReasonConflictingBookings {
		t.Fatalf("accepted overlap must block an accept: %+v", av)
	}
}

func TestOverlappingPending(t *testing.T) {
	// Spec example: accepting A (06-01..06-05) auto-rejects pending
	// B (06-03..06-07) on the same car.
	bookings := []model.Booking{
		{ID: 10, Status: model.BookingPending, StartDate: d("2024-06-01"), EndDate: d("2024-06-05")}, // A
		{ID: 11, Status: model.BookingPending, StartDate: d("2024-06-03"), EndDate: d("2024-06-07")}, // B
		{ID: 12, Status: model.BookingPending, StartDate: d("2024-06-20"), EndDate: d("2024-06-22")},
		{ID: 13, Status: model.BookingAccepted, StartDate: d("2024-06-04"), EndDate: d("2024-06-06")},
	}
	got := OverlappingPending(bookings, d("2024-06-01"), d("2024-06-05"), 10)
	if len(got) != 1 || got[0] != 11 {
		t.Fatalf("OverlappingPending = %v, want [11]", got)
	}
}
