package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ajjer/car-rental-api/internal/model"
	"github.com/ajjer/car-rental-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,name,email,password_hash,role,status,frozen_until,ban_reason,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u           model.User
		frozenUntil sql.NullTime
		banReason   sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&frozenUntil, &banReason, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrUserNotFound
		}
		return u, err
	}
	if frozenUntil.Valid {
		t := frozenUntil.Time
		u.FrozenUntil = &t
	}
	if banReason.Valid {
		s := banReason.String
		u.BanReason = &s
	}
	return u, nil
}

// Create inserts a user and returns its ID. New accounts start ACTIVE.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, status) VALUES (?,?,?,?,?)",
		name, email, hash, role, model.StatusActive)
	if err != nil {
		// 1062 = MySQL duplicate entry, the unique index on email
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateName changes the display name.
func (r *UserRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET name=? WHERE id=?", name, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdateRole switches a user between RENTER and HOST. ADMIN rows are
// never touched through this path.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE id=? AND role<>?", role, id, model.RoleAdmin)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// Freeze marks a user FROZEN until the given time.
func (r *UserRepo) Freeze(ctx context.Context, id uint64, until time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=?, frozen_until=? WHERE id=?",
		model.StatusFrozen, until.UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// Unfreeze restores a FROZEN user to ACTIVE. Banned users stay banned.
func (r *UserRepo) Unfreeze(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=?, frozen_until=NULL WHERE id=? AND status=?",
		model.StatusActive, id, model.StatusFrozen)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// Ban marks a user BANNED with the admin's reason and revokes nothing
// else; token revocation is the caller's concern.
func (r *UserRepo) Ban(ctx context.Context, id uint64, reason string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=?, ban_reason=? WHERE id=?",
		model.StatusBanned, reason, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// List returns users ordered by creation time for the admin console.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var (
			u           model.User
			frozenUntil sql.NullTime
			banReason   sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
			&frozenUntil, &banReason, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if frozenUntil.Valid {
			t := frozenUntil.Time
			u.FrozenUntil = &t
		}
		if banReason.Valid {
			s := banReason.String
			u.BanReason = &s
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// requireRow maps "zero rows affected" to the given sentinel.
func requireRow(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
