// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEvent is published on every booking lifecycle change
// (requested, accepted, rejected, canceled, completed). It carries
// enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingEvent struct {
	BookingID  uint64  `json:"booking_id"`
	Status     string  `json:"status"`
	CarID      uint64  `json:"car_id"`
	CarBrand   string  `json:"car_brand"`
	CarModel   string  `json:"car_model"`
	RenterID   uint64  `json:"renter_id"`
	HostID     uint64  `json:"host_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalPrice float64 `json:"total_price"`
	Reason     string  `json:"reason,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}
