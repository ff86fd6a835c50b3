package repository

import (
	"context"
	"database/sql"

	"github.com/ajjer/car-rental-api/internal/model"
)

// CarRepo provides CRUD operations for car listings. Soft-deleted
// rows are excluded from every read except GetAnyByID, which booking
// history views use to resolve cars that were delisted after the
// booking was made.
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo returns a new CarRepo bound to the given database.
func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span multiple repositories.
func (r *CarRepo) DB() *sql.DB { return r.db }

const carColumns = `id, owner_id, brand, model, year, plate, color, mileage,
	price_per_day, location, availability_start, availability_end,
	status, is_deleted, created_at, updated_at`

func scanCar(s interface {
	Scan(dest ...any) error
}) (model.Car, error) {
	var c model.Car
	err := s.Scan(&c.ID, &c.OwnerID, &c.Brand, &c.Model, &c.Year, &c.Plate, &c.Color,
		&c.Mileage, &c.PricePerDay, &c.Location, &c.AvailabilityStart, &c.AvailabilityEnd,
		&c.Status, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create inserts a listing and populates the generated ID.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cars (owner_id, brand, model, year, plate, color, mileage,
		   price_per_day, location, availability_start, availability_end, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.OwnerID, c.Brand, c.Model, c.Year, c.Plate, c.Color, c.Mileage,
		c.PricePerDay, c.Location, c.AvailabilityStart, c.AvailabilityEnd, c.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID returns a live (not soft-deleted) car.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE id=? AND is_deleted=0 LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrCarNotFound
	}
	return c, err
}

// GetAnyByID returns a car regardless of its soft-delete flag.
func (r *CarRepo) GetAnyByID(ctx context.Context, id uint64) (model.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrCarNotFound
	}
	return c, err
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *CarRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Car, error) {
	c, err := scanCar(tx.QueryRowContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE id=? AND is_deleted=0 LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrCarNotFound
	}
	return c, err
}

// LockTx takes a row lock on the car inside the transaction. Both the
// create and accept paths lock the car before reading its bookings,
// which serializes competing mutations on the same car.
func (r *CarRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM cars WHERE id=? AND is_deleted=0 FOR UPDATE", id).Scan(&got)
	if err == sql.ErrNoRows {
		return ErrCarNotFound
	}
	return err
}

// ListByOwner returns the host's own listings, newest first.
func (r *CarRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE owner_id=? AND is_deleted=0 ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// UpdateByOwner updates the mutable listing fields, verifying
// ownership in the WHERE clause. It returns ErrCarNotFound when the
// row does not exist and ErrForbidden when it belongs to another
// host.
func (r *CarRepo) UpdateByOwner(ctx context.Context, c *model.Car, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM cars WHERE id=? AND is_deleted=0", c.ID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrCarNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE cars SET brand=?, model=?, year=?, plate=?, color=?, mileage=?,
		   price_per_day=?, location=?, availability_start=?, availability_end=?, status=?
		 WHERE id=?`,
		c.Brand, c.Model, c.Year, c.Plate, c.Color, c.Mileage,
		c.PricePerDay, c.Location, c.AvailabilityStart, c.AvailabilityEnd, c.Status, c.ID)
	return err
}

// SoftDeleteByOwner flags the listing deleted. Bookings referencing
// it survive; the car just disappears from search and new requests.
func (r *CarRepo) SoftDeleteByOwner(ctx context.Context, id, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM cars WHERE id=? AND is_deleted=0", id).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrCarNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "UPDATE cars SET is_deleted=1 WHERE id=?", id)
	return err
}

// Delist forces a listing out of the marketplace (admin action).
func (r *CarRepo) Delist(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cars SET status=? WHERE id=? AND is_deleted=0", model.CarDelisted, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrCarNotFound)
}
