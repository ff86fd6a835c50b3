package model

import "time"

// Booking statuses. PENDING is the initial state of every request.
// REJECTED, CANCELED and COMPLETED are terminal.
const (
	BookingPending   = "PENDING"
	BookingAccepted  = "ACCEPTED"
	BookingRejected  = "REJECTED"
	BookingCanceled  = "CANCELED"
	BookingCompleted = "COMPLETED"
)

// Booking records a renter's request for a car over an inclusive
// date range. Invariant enforced by the accept flow and the
// bookings_no_overlap trigger: for a given car no two ACCEPTED
// bookings may have overlapping [StartDate, EndDate] intervals.
//
// Fields:
//  ID              – primary key identifier.
//  RenterID        – user who made the request.
//  CarID           – car being requested.
//  StartDate       – first rental day (DATE, inclusive).
//  EndDate         – last rental day (DATE, inclusive).
//  TotalPrice      – price_per_day × inclusive day count, fixed at creation.
//  Status          – state of the booking.
//  RejectionReason – why the host (or the accept cascade) rejected it.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	RenterID        uint64    // bookings.renter_id
	CarID           uint64    // bookings.car_id
	StartDate       time.Time // bookings.start_date
	EndDate         time.Time // bookings.end_date
	TotalPrice      float64   // bookings.total_price
	Status          string    // bookings.status
	RejectionReason *string   // bookings.rejection_reason (nullable)
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}
