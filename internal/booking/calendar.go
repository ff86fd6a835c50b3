package booking

import (
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
)

// CalendarDay is one entry of the availability calendar.
type CalendarDay struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// Calendar produces a day-by-day availability view of a car from the
// later of (today, availability_start) through availability_end. A
// day is unavailable when any PENDING or ACCEPTED booking covers it.
// The calendar is a read-side display aid, not an invariant enforcer;
// creation and accept paths re-check conflicts inside transactions.
func Calendar(car *model.Car, bookings []model.Booking, today time.Time) []CalendarDay {
	from := Day(today)
	if s := Day(car.AvailabilityStart); s.After(from) {
		from = s
	}
	to := Day(car.AvailabilityEnd)
	if to.Before(from) {
		return []CalendarDay{}
	}

	// Collect blocking ranges once instead of scanning per day.
	type span struct{ s, e time.Time }
	var blocked []span
	for _, b := range bookings {
		if b.Status != model.BookingPending && b.Status != model.BookingAccepted {
			continue
		}
		blocked = append(blocked, span{Day(b.StartDate), Day(b.EndDate)})
	}

	days := make([]CalendarDay, 0, InclusiveDays(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		free := true
		for _, s := range blocked {
			if !d.Before(s.s) && !d.After(s.e) {
				free = false
				break
			}
		}
		days = append(days, CalendarDay{Date: d.Format(dateLayout), Available: free})
	}
	return days
}
