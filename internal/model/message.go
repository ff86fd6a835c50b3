package model

import "time"

// Message is a row in the `messages` table. Messages are written by
// users or synthesized by the system when a booking changes state;
// system messages carry IsSystem=true and always reference the
// booking that produced them.
type Message struct {
	ID         uint64    // messages.id
	SenderID   uint64    // messages.sender_id
	ReceiverID uint64    // messages.receiver_id
	BookingID  *uint64   // messages.booking_id (nullable)
	Body       string    // messages.body
	IsSystem   bool      // messages.is_system
	IsRead     bool      // messages.is_read
	CreatedAt  time.Time // messages.created_at
}
