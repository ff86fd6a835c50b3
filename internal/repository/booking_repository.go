package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Bookings pass
// through a small state machine (PENDING, ACCEPTED, REJECTED,
// CANCELED, COMPLETED); every multi-row mutation is exposed as a
// ...Tx method so the handler can run the whole cascade inside one
// transaction. All date columns are DATE and read back as UTC
// midnights via parseTime=true.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, renter_id, car_id, start_date, end_date, total_price,
	status, rejection_reason, created_at, updated_at`

func scanBooking(s interface {
	Scan(dest ...any) error
}) (model.Booking, error) {
	var (
		b      model.Booking
		reason sql.NullString
	)
	err := s.Scan(&b.ID, &b.RenterID, &b.CarID, &b.StartDate, &b.EndDate, &b.TotalPrice,
		&b.Status, &reason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	if reason.Valid {
		v := reason.String
		b.RejectionReason = &v
	}
	return b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction. It populates the generated ID and timestamps on the
// provided record. The caller must commit or rollback the
// transaction. Status should already be set (normally PENDING).
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (renter_id, car_id, start_date, end_date, total_price, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.RenterID, b.CarID, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02"),
		b.TotalPrice, b.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	got, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", b.ID))
	if err != nil {
		return err
	}
	*b = got
	return nil
}

// GetByID returns a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// GetByIDTx returns a booking inside a transaction, taking a row lock
// so concurrent transitions on the same booking serialize.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	b, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1 FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// ListActiveByCar returns the car's PENDING and ACCEPTED bookings.
// The availability checker and calendar both consume this set.
func (r *BookingRepo) ListActiveByCar(ctx context.Context, carID uint64) ([]model.Booking, error) {
	return r.listActiveByCar(ctx, r.db.QueryContext, carID)
}

// ListActiveByCarTx is ListActiveByCar inside an existing transaction.
func (r *BookingRepo) ListActiveByCarTx(ctx context.Context, tx *sql.Tx, carID uint64) ([]model.Booking, error) {
	return r.listActiveByCar(ctx, tx.QueryContext, carID)
}

type queryFn func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *BookingRepo) listActiveByCar(ctx context.Context, query queryFn, carID uint64) ([]model.Booking, error) {
	rows, err := query(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE car_id=? AND status IN (?,?) ORDER BY start_date",
		carID, model.BookingPending, model.BookingAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatusTx sets a booking's status (and optional rejection
// reason) within a transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, reason *string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=?, rejection_reason=? WHERE id=?",
		status, reason, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrBookingNotFound)
}

// RejectManyTx marks all given bookings REJECTED with the same reason
// in a single statement. Passing an empty slice has no effect.
func (r *BookingRepo) RejectManyTx(ctx context.Context, tx *sql.Tx, ids []uint64, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := []any{model.BookingRejected, reason}
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=?, rejection_reason=? WHERE id IN ("+strings.Join(placeholders, ",")+")",
		args...)
	return err
}

// BypassOverlapGuardTx disables the bookings_no_overlap trigger for
// the current session. The trigger raises a SQL error whenever an
// ACCEPTED row would overlap another ACCEPTED row on the same car,
// which would abort the accept cascade halfway through its multi-row
// update; the cascade re-checks the invariant itself before writing.
// Callers MUST pair this with a deferred ClearOverlapGuardTx so the
// guard is re-armed even on error paths.
func (r *BookingRepo) BypassOverlapGuardTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "SET @bypass_overlap_guard = 1")
	return err
}

// ClearOverlapGuardTx re-arms the bookings_no_overlap trigger.
func (r *BookingRepo) ClearOverlapGuardTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "SET @bypass_overlap_guard = NULL")
	return err
}

// BookingDetail is a booking joined with its car and counterparty for
// list views.
type BookingDetail struct {
	ID              uint64  `json:"id"`
	CarID           uint64  `json:"car_id"`
	CarBrand        string  `json:"car_brand"`
	CarModel        string  `json:"car_model"`
	CarPlate        string  `json:"car_plate"`
	RenterID        uint64  `json:"renter_id"`
	RenterName      string  `json:"renter_name"`
	HostID          uint64  `json:"host_id"`
	HostName        string  `json:"host_name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

const bookingDetailSQL = `SELECT b.id, b.car_id, c.brand, c.model, c.plate,
		b.renter_id, ru.name, c.owner_id, hu.name,
		DATE_FORMAT(b.start_date, '%Y-%m-%d'),
		DATE_FORMAT(b.end_date,   '%Y-%m-%d'),
		b.total_price, b.status, b.rejection_reason, b.created_at
	FROM bookings b
	JOIN cars c  ON c.id = b.car_id
	JOIN users ru ON ru.id = b.renter_id
	JOIN users hu ON hu.id = c.owner_id`

func collectDetails(rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d         BookingDetail
			reason    sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&d.ID, &d.CarID, &d.CarBrand, &d.CarModel, &d.CarPlate,
			&d.RenterID, &d.RenterName, &d.HostID, &d.HostName,
			&d.StartDate, &d.EndDate, &d.TotalPrice, &d.Status, &reason, &createdAt); err != nil {
			return nil, err
		}
		if reason.Valid {
			v := reason.String
			d.RejectionReason = &v
		}
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByRenter returns the renter's bookings, newest first.
func (r *BookingRepo) ListByRenter(ctx context.Context, renterID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingDetailSQL+" WHERE b.renter_id = ? ORDER BY b.created_at DESC", renterID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// ListByHost returns all booking requests on the host's cars, newest
// first.
func (r *BookingRepo) ListByHost(ctx context.Context, hostID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingDetailSQL+" WHERE c.owner_id = ? ORDER BY b.created_at DESC", hostID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// GetDetail returns one booking with its car and counterparty names.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailSQL+" WHERE b.id = ?", id)
	if err != nil {
		return nil, err
	}
	details, err := collectDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrBookingNotFound
	}
	return &details[0], nil
}
