package booking

import (
	"testing"

	"github.com/ajjer/car-rental-api/internal/model"
)

func TestCalendarStartsAtLaterOfTodayAndWindow(t *testing.T) {
	car := testCar() // window 2024-06-01..2024-06-30
	days := Calendar(car, nil, d("2024-06-10"))
	if len(days) != 21 {
		t.Fatalf("len = %d, want 21", len(days))
	}
	if days[0].Date != "2024-06-10" || days[len(days)-1].Date != "2024-06-30" {
		t.Fatalf("range = %s..%s", days[0].Date, days[len(days)-1].Date)
	}

	// Today before the window: starts at availability_start.
	days = Calendar(car, nil, d("2024-05-20"))
	if days[0].Date != "2024-06-01" || len(days) != 30 {
		t.Fatalf("got start %s len %d, want 2024-06-01 / 30", days[0].Date, len(days))
	}
}

func TestCalendarMarksBookedDays(t *testing.T) {
	car := testCar()
	bookings := []model.Booking{
		{ID: 1, Status: model.BookingAccepted, StartDate: d("2024-06-02"), EndDate: d("2024-06-04")},
		{ID: 2, Status: model.BookingPending, StartDate: d("2024-06-06"), EndDate: d("2024-06-06")},
		{ID: 3, Status: model.BookingCanceled, StartDate: d("2024-06-08"), EndDate: d("2024-06-09")},
	}
	days := Calendar(car, bookings, d("2024-06-01"))
	byDate := map[string]bool{}
	for _, day := range days {
		byDate[day.Date] = day.Available
	}
	for _, date := range []string{"2024-06-02", "2024-06-03", "2024-06-04", "2024-06-06"} {
		if byDate[date] {
			t.Errorf("%s should be unavailable", date)
		}
	}
	// Canceled bookings do not block, nor do free days.
	for _, date := range []string{"2024-06-01", "2024-06-05", "2024-06-08", "2024-06-09"} {
		if !byDate[date] {
			t.Errorf("%s should be available", date)
		}
	}
}

func TestCalendarEmptyWhenWindowPassed(t *testing.T) {
	car := testCar()
	days := Calendar(car, nil, d("2024-07-15"))
	if len(days) != 0 {
		t.Fatalf("len = %d, want 0", len(days))
	}
}
