package session

import (
	"context"
	"time"
)

// Row is a server-side session record. The plain token never appears here;
// rows are keyed by TokenHash.
type Row struct {
	ID         string
	Email      string
	TokenHash  string
	CreatedAt  time.Time
	LastUsedAt time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// Store abstracts persistence for session state.
//
// Implementations must enforce token-hash uniqueness at the storage layer.
type Store interface {
	// Create inserts a new session row.
	Create(ctx context.Context, row Row) error

	// GetByTokenHash loads a session row. Absence is ErrNotActive.
	GetByTokenHash(ctx context.Context, tokenHash string) (Row, error)

	// Touch updates last_used_at for an active session (best-effort).
	Touch(ctx context.Context, now time.Time, tokenHash string) error

	// Revoke marks a session revoked (idempotent; unknown hash is a no-op).
	Revoke(ctx context.Context, now time.Time, tokenHash string, reason string) error

	// DeleteDead removes rows that are expired or revoked as of now.
	// Returns the number of rows removed.
	DeleteDead(ctx context.Context, now time.Time) (int64, error)
}
