package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ajjer/car-rental-api/internal/model"
)

// RatingRepo provides access to the ratings and car_ratings tables.
// The gate rules (booking completed, rater is a party, ratee is the
// other party, no duplicate triple) are checked by the handler using
// the booking record; this layer only enforces the uniqueness at the
// SQL level as a backstop.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a new RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RatingRepo) DB() *sql.DB { return r.db }

// Exists reports whether the (booking, rater, ratee) triple already
// has a rating.
func (r *RatingRepo) Exists(ctx context.Context, bookingID, raterID, rateeID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM ratings WHERE booking_id=? AND rater_id=? AND ratee_id=? LIMIT 1",
		bookingID, raterID, rateeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a user rating within a transaction. The unique
// index on (booking_id, rater_id, ratee_id) turns a race between two
// identical submissions into ErrRatingExists.
func (r *RatingRepo) CreateTx(ctx context.Context, tx *sql.Tx, rt *model.Rating) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO ratings (booking_id, rater_id, ratee_id, score, comment) VALUES (?,?,?,?,?)",
		rt.BookingID, rt.RaterID, rt.RateeID, rt.Score, rt.Comment)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRatingExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// CreateCarRatingTx inserts the bundled car rating in the same
// transaction as the user rating.
func (r *RatingRepo) CreateCarRatingTx(ctx context.Context, tx *sql.Tx, cr *model.CarRating) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO car_ratings (booking_id, car_id, rater_id, score, comment) VALUES (?,?,?,?,?)",
		cr.BookingID, cr.CarID, cr.RaterID, cr.Score, cr.Comment)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrRatingExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cr.ID = uint64(id)
	return nil
}

// CarAverage returns the average car rating and how many ratings it
// is based on.
func (r *RatingRepo) CarAverage(ctx context.Context, carID uint64) (float64, int64, error) {
	var (
		avg sql.NullFloat64
		n   int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT AVG(score), COUNT(*) FROM car_ratings WHERE car_id=?", carID).Scan(&avg, &n)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, n, nil
}

// UserAverage returns the average rating received by a user.
func (r *RatingRepo) UserAverage(ctx context.Context, userID uint64) (float64, int64, error) {
	var (
		avg sql.NullFloat64
		n   int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT AVG(score), COUNT(*) FROM ratings WHERE ratee_id=?", userID).Scan(&avg, &n)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, n, nil
}
