package domain

import (
	"context"
	"time"
)

// AnonymousUserID is the user id of callers without a resolvable identity
const AnonymousUserID int64 = 0

// User represents a user entity in the system.
// Users are owned by the auth subsystem; this core only checks existence.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Username  string    // Login username (unique)
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp
}

// UserRepository defines the contract for user lookups.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)
}

// IdentityResolver maps an identity token to a user id.
type IdentityResolver interface {
	// ResolveUser returns ErrUnauthorized for any token it cannot verify.
	ResolveUser(ctx context.Context, token string) (int64, error)
}
