// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not authorized to perform an operation on a resource owned
// by someone else, while ErrConflict signals that an operation
// cannot proceed due to conflicting state (e.g. overlapping booking
// dates or a duplicate rating).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a mutation cannot be performed because
// of conflicting state, such as accepting a booking whose dates
// overlap an already accepted one. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrCarNotFound is returned when a car does not exist or has been
// soft-deleted.
var ErrCarNotFound = errors.New("car not found")

// ErrBookingNotFound is returned when a booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when a user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrRatingExists is returned when the (booking, rater, ratee) triple
// has already been rated.
var ErrRatingExists = errors.New("rating already exists")
