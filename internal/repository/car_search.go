package repository

import (
	"context"
	"strings"
	"time"
)

// CarSearchQuery defines filters & pagination for searching listings.
type CarSearchQuery struct {
	Brand     string
	Model     string
	Location  string
	PriceMin  float64
	PriceMax  float64
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// PublicCarRow is the sanitized listing shape returned to guests.
type PublicCarRow struct {
	ID                uint64  `json:"id"`
	Brand             string  `json:"brand"`
	Model             string  `json:"model"`
	Year              uint16  `json:"year"`
	Color             string  `json:"color"`
	Mileage           uint32  `json:"mileage"`
	PricePerDay       float64 `json:"price_per_day"`
	Location          string  `json:"location"`
	AvailabilityStart string  `json:"availability_start"`
	AvailabilityEnd   string  `json:"availability_end"`
}

// Search returns AVAILABLE, non-deleted listings matching the query,
// plus the total match count for pagination. The optional DateFrom/
// DateTo filter keeps only cars whose published window fully covers
// the requested range; per-day booking conflicts are left to the
// availability endpoint.
func (r *CarRepo) Search(ctx context.Context, q CarSearchQuery) ([]PublicCarRow, int64, error) {
	where := []string{"c.is_deleted = 0", "c.status = 'AVAILABLE'"}
	args := []any{}

	if q.Brand != "" {
		where = append(where, "LOWER(c.brand) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Brand)+"%")
	}
	if q.Model != "" {
		where = append(where, "LOWER(c.model) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Model)+"%")
	}
	if q.Location != "" {
		where = append(where, "LOWER(c.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.PriceMin > 0 {
		where = append(where, "c.price_per_day >= ?")
		args = append(args, q.PriceMin)
	}
	if q.PriceMax > 0 {
		where = append(where, "c.price_per_day <= ?")
		args = append(args, q.PriceMax)
	}
	if q.DateFrom != nil {
		where = append(where, "c.availability_start <= ?")
		args = append(args, q.DateFrom.UTC().Format("2006-01-02"))
	}
	if q.DateTo != nil {
		where = append(where, "c.availability_end >= ?")
		args = append(args, q.DateTo.UTC().Format("2006-01-02"))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*) FROM cars c WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			c.id,
			c.brand,
			c.model,
			c.year,
			c.color,
			c.mileage,
			c.price_per_day,
			c.location,
			DATE_FORMAT(c.availability_start, '%Y-%m-%d') AS availability_start,
			DATE_FORMAT(c.availability_end,   '%Y-%m-%d') AS availability_end
		FROM cars c
		WHERE ` + cond + `
		ORDER BY c.created_at DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicCarRow, 0, limit)
	for rows.Next() {
		var row PublicCarRow
		if err := rows.Scan(&row.ID, &row.Brand, &row.Model, &row.Year, &row.Color,
			&row.Mileage, &row.PricePerDay, &row.Location,
			&row.AvailabilityStart, &row.AvailabilityEnd); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
