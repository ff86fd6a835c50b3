package model

import "time"

// Car listing statuses. AVAILABLE cars can receive booking requests.
// UNAVAILABLE is set by the host (temporary); DELISTED is set by an
// admin and cannot be undone by the host.
const (
	CarAvailable   = "AVAILABLE"
	CarUnavailable = "UNAVAILABLE"
	CarDelisted    = "DELISTED"
)

// Car represents a listing in the `cars` table. The availability
// window bounds the dates a booking may cover; both ends are
// inclusive calendar days. IsDeleted is a soft-delete flag set when
// the host removes the listing; deleted rows are kept for bookings
// that reference them.
type Car struct {
	ID                uint64    // cars.id
	OwnerID           uint64    // cars.owner_id
	Brand             string    // cars.brand
	Model             string    // cars.model
	Year              uint16    // cars.year
	Plate             string    // cars.plate
	Color             string    // cars.color
	Mileage           uint32    // cars.mileage
	PricePerDay       float64   // cars.price_per_day (SAR)
	Location          string    // cars.location
	AvailabilityStart time.Time // cars.availability_start (DATE, inclusive)
	AvailabilityEnd   time.Time // cars.availability_end (DATE, inclusive)
	Status            string    // cars.status
	IsDeleted         bool      // cars.is_deleted
	CreatedAt         time.Time // cars.created_at
	UpdatedAt         time.Time // cars.updated_at
}
