package model

import "time"

// Roles a user can hold. RENTER and HOST are self-service (a user may
// toggle between them); ADMIN is assigned out of band.
const (
	RoleRenter = "RENTER"
	RoleHost   = "HOST"
	RoleAdmin  = "ADMIN"
)

// Account statuses. Anything other than ACTIVE blocks booking and
// listing actions but still allows login and reading.
const (
	StatusActive = "ACTIVE"
	StatusFrozen = "FROZEN"
	StatusBanned = "BANNED"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column. The json tags
// are omitted because these structs are used by the repository
// layer; handlers define separate response types.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – RENTER, HOST or ADMIN.
//  Status       – ACTIVE, FROZEN or BANNED.
//  FrozenUntil  – end of the freeze window (null unless FROZEN).
//  BanReason    – reason recorded by the admin (null unless BANNED).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Name         string     // users.name
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	Role         string     // users.role
	Status       string     // users.status
	FrozenUntil  *time.Time // users.frozen_until (nullable)
	BanReason    *string    // users.ban_reason (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation. The plain token is not stored; only its SHA-256
// hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
