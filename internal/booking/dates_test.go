package booking

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestInclusiveDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-06-01", "2024-06-01", 1},
		{"2024-06-01", "2024-06-03", 3},
		{"2024-06-01", "2024-06-30", 30},
		{"2024-02-28", "2024-03-01", 3}, // leap year
		{"2024-06-03", "2024-06-01", 0}, // reversed
	}
	for _, c := range cases {
		if got := InclusiveDays(d(c.start), d(c.end)); got != c.want {
			t.Errorf("InclusiveDays(%s, %s) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestInclusiveDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 0, 1, 0, 0, time.UTC)
	if got := InclusiveDays(start, end); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestTotalPrice(t *testing.T) {
	// Spec example: 100 SAR/day, 2024-06-01..2024-06-03 -> 300.
	if got := TotalPrice(100, d("2024-06-01"), d("2024-06-03")); got != 300 {
		t.Fatalf("TotalPrice = %v, want 300", got)
	}
	if got := TotalPrice(149.5, d("2024-06-01"), d("2024-06-01")); got != 149.5 {
		t.Fatalf("single day TotalPrice = %v, want 149.5", got)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"disjoint before", "2024-06-01", "2024-06-03", "2024-06-04", "2024-06-06", false},
		{"disjoint after", "2024-06-04", "2024-06-06", "2024-06-01", "2024-06-03", false},
		{"touching endpoints overlap", "2024-06-01", "2024-06-03", "2024-06-03", "2024-06-05", true},
		{"contained", "2024-06-01", "2024-06-10", "2024-06-04", "2024-06-05", true},
		{"identical", "2024-06-01", "2024-06-03", "2024-06-01", "2024-06-03", true},
		{"partial", "2024-06-01", "2024-06-05", "2024-06-03", "2024-06-07", true},
		{"single day inside", "2024-06-02", "2024-06-02", "2024-06-01", "2024-06-03", true},
	}
	for _, c := range cases {
		if got := Overlaps(d(c.s1), d(c.e1), d(c.s2), d(c.e2)); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestWithinWindow(t *testing.T) {
	ws, we := d("2024-06-01"), d("2024-06-30")
	if !WithinWindow(d("2024-06-01"), d("2024-06-30"), ws, we) {
		t.Error("full window should be within")
	}
	if WithinWindow(d("2024-05-31"), d("2024-06-05"), ws, we) {
		t.Error("start before window should fail")
	}
	if WithinWindow(d("2024-06-25"), d("2024-07-01"), ws, we) {
		t.Error("end after window should fail")
	}
}
