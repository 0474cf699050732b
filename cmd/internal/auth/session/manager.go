package session

import (
	"context"
	"strings"
	"time"

	"porter/cmd/identity/ids"
	"porter/cmd/security/token"
)

// Manager implements the high-level session operations: establish an identity
// claim after login, resolve it on each request, revoke it on logout.
type Manager struct {
	cfg   Config
	store Store
}

// NewManager constructs a Manager over the given store.
func NewManager(cfg Config, store Store) *Manager {
	return &Manager{cfg: cfg, store: store}
}

// Establish creates a new session for email and returns the plain token to be
// set as the cookie value. Only the token's digest is persisted.
func (m *Manager) Establish(ctx context.Context, now time.Time, email string) (string, error) {
	plain, err := token.NewOpaque(m.cfg.TokenBytes)
	if err != nil {
		return "", err
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return "", err
	}

	row := Row{
		ID:         id,
		Email:      email,
		TokenHash:  token.HashHex(plain),
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(m.cfg.TTL),
	}
	if err := m.store.Create(ctx, row); err != nil {
		return "", err
	}

	return plain, nil
}

// Resolve returns the email behind a token, or ErrNotActive for anything
// that is not a live session: unknown token, expired, idle-expired, revoked.
// On success the session's last-used time is touched (best-effort).
func (m *Manager) Resolve(ctx context.Context, now time.Time, plain string) (string, error) {
	plain = strings.TrimSpace(plain)
	// Bound pathological inputs before hashing.
	if plain == "" || len(plain) > 1024 {
		return "", ErrNotActive
	}

	hash := token.HashHex(plain)

	row, err := m.store.GetByTokenHash(ctx, hash)
	if err != nil {
		return "", err
	}

	if row.RevokedAt != nil {
		return "", ErrNotActive
	}
	if !row.ExpiresAt.After(now) {
		return "", ErrNotActive
	}
	if m.cfg.IdleTimeout > 0 && now.Sub(row.LastUsedAt) > m.cfg.IdleTimeout {
		return "", ErrNotActive
	}

	// Touch failures must not fail the request.
	_ = m.store.Touch(ctx, now, hash)

	return row.Email, nil
}

// Revoke invalidates the session server-side so a captured token cannot be
// replayed after logout. Revoking an unknown or already-dead token is a no-op.
func (m *Manager) Revoke(ctx context.Context, now time.Time, plain string) error {
	plain = strings.TrimSpace(plain)
	if plain == "" || len(plain) > 1024 {
		return nil
	}
	return m.store.Revoke(ctx, now, token.HashHex(plain), "logout")
}

// TTL returns the absolute session lifetime; the web layer aligns cookie
// expiry with it.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Sweep deletes expired and revoked rows; used by the janitor.
func (m *Manager) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return m.store.DeleteDead(ctx, now)
}
