package identity

import (
	"context"
	"time"
)

// User is the canonical identity record.
// PasswordHash holds the verifier produced by cmd/security/password; the
// plaintext is never stored.
type User struct {
	ID           string
	Email        string
	EmailNorm    string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the user persistence boundary.
type Store interface {
	// FindByEmail looks a user up by email (normalized match).
	// Absence is ErrNotFound, a valid outcome callers must handle.
	FindByEmail(ctx context.Context, email string) (User, error)

	// Create inserts a new user with the given password verifier.
	// A duplicate email yields a ConflictError; the uniqueness check is
	// atomic with the insert.
	Create(ctx context.Context, email, passwordHash string) (User, error)
}
