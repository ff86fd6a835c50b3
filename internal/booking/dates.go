// Package booking holds the pure decision logic of the booking
// lifecycle: inclusive date arithmetic, the overlap predicate,
// availability checks, the transition state machine and calendar
// construction. It touches no database so handlers and tests share
// the exact same rules.
package booking

import "time"

// dateLayout is the wire format for calendar days.
const dateLayout = "2006-01-02"

// Day truncates t to midnight UTC. All interval comparisons operate
// on whole calendar days, so every date entering this package goes
// through Day first.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays returns the number of calendar days covered by
// [start, end], counting both endpoints. start == end is one day.
// The result is 0 when end precedes start.
func InclusiveDays(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// TotalPrice computes the booking price fixed at creation time:
// price per day times the inclusive day count.
func TotalPrice(pricePerDay float64, start, end time.Time) float64 {
	return pricePerDay * float64(InclusiveDays(start, end))
}

// Overlaps reports whether the inclusive day ranges [s1,e1] and
// [s2,e2] share at least one day: s1 <= e2 AND s2 <= e1.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !Day(s1).After(Day(e2)) && !Day(s2).After(Day(e1))
}

// WithinWindow reports whether [start, end] lies entirely inside the
// inclusive window [winStart, winEnd].
func WithinWindow(start, end, winStart, winEnd time.Time) bool {
	return !Day(start).Before(Day(winStart)) && !Day(end).After(Day(winEnd))
}
