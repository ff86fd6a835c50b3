package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
)

// MessageRepo provides access to the messages table. Messages come
// from two sources: users talking to each other, and the system
// recording booking lifecycle events into the same conversation so
// the chat doubles as a booking audit trail.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts a user-authored message and populates its ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, booking_id, body, is_system) VALUES (?,?,?,?,0)",
		m.SenderID, m.ReceiverID, m.BookingID, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// CreateSystemTx inserts a system message inside a booking
// transaction, so the chat record and the status change commit or
// roll back together.
func (r *MessageRepo) CreateSystemTx(ctx context.Context, tx *sql.Tx, senderID, receiverID, bookingID uint64, body string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, booking_id, body, is_system) VALUES (?,?,?,?,1)",
		senderID, receiverID, bookingID, body)
	return err
}

// ConversationMessage is the wire shape of a message in a thread.
type ConversationMessage struct {
	ID        uint64  `json:"id"`
	SenderID  uint64  `json:"sender_id"`
	BookingID *uint64 `json:"booking_id,omitempty"`
	Body      string  `json:"body"`
	IsSystem  bool    `json:"is_system"`
	IsRead    bool    `json:"is_read"`
	CreatedAt string  `json:"created_at"`
}

// Conversation returns the full two-way thread between two users in
// chronological order.
func (r *MessageRepo) Conversation(ctx context.Context, userA, userB uint64) ([]ConversationMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_id, booking_id, body, is_system, is_read, created_at
		 FROM messages
		 WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		 ORDER BY created_at, id`,
		userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ConversationMessage, 0)
	for rows.Next() {
		var (
			m         ConversationMessage
			bookingID sql.NullInt64
			createdAt time.Time
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &bookingID, &m.Body, &m.IsSystem, &m.IsRead, &createdAt); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			v := uint64(bookingID.Int64)
			m.BookingID = &v
		}
		m.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkConversationRead flags every message from the counterparty to
// the reader as read and returns how many rows changed.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, readerID, otherID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE messages SET is_read=1 WHERE receiver_id=? AND sender_id=? AND is_read=0",
		readerID, otherID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnreadCount returns the number of unread messages addressed to the
// user.
func (r *MessageRepo) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE receiver_id=? AND is_read=0", userID).Scan(&n)
	return n, err
}
