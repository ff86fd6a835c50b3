package model

import "time"

// Rating is a user-to-user rating attached to a completed booking.
// The (BookingID, RaterID, RateeID) triple is unique, so each party
// can rate the other exactly once per booking.
type Rating struct {
	ID        uint64    // ratings.id
	BookingID uint64    // ratings.booking_id
	RaterID   uint64    // ratings.rater_id
	RateeID   uint64    // ratings.ratee_id
	Score     uint8     // ratings.score (1..5)
	Comment   string    // ratings.comment
	CreatedAt time.Time // ratings.created_at
}

// CarRating is an optional rating of the car itself, bundled with a
// renter's rating of the host in the same transaction.
type CarRating struct {
	ID        uint64    // car_ratings.id
	BookingID uint64    // car_ratings.booking_id
	CarID     uint64    // car_ratings.car_id
	RaterID   uint64    // car_ratings.rater_id
	Score     uint8     // car_ratings.score (1..5)
	Comment   string    // car_ratings.comment
	CreatedAt time.Time // car_ratings.created_at
}
