package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]Row // token_hash -> row
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Row)}
}

// Create inserts a new session row.
func (s *MemoryStore) Create(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.TokenHash] = row
	return nil
}

// GetByTokenHash loads a session row; absence is ErrNotActive.
func (s *MemoryStore) GetByTokenHash(ctx context.Context, tokenHash string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[tokenHash]
	if !ok {
		return Row{}, ErrNotActive
	}
	return row, nil
}

// Touch updates last_used_at for an active session.
func (s *MemoryStore) Touch(ctx context.Context, now time.Time, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[tokenHash]
	if !ok || row.RevokedAt != nil || !row.ExpiresAt.After(now) {
		return nil
	}
	row.LastUsedAt = now
	s.rows[tokenHash] = row
	return nil
}

// Revoke marks a session revoked (idempotent).
func (s *MemoryStore) Revoke(ctx context.Context, now time.Time, tokenHash string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[tokenHash]
	if !ok {
		return nil
	}
	if row.RevokedAt == nil {
		t := now
		row.RevokedAt = &t
		s.rows[tokenHash] = row
	}
	return nil
}

// DeleteDead removes expired and revoked rows.
func (s *MemoryStore) DeleteDead(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for hash, row := range s.rows {
		if row.RevokedAt != nil || !row.ExpiresAt.After(now) {
			delete(s.rows, hash)
			n++
		}
	}
	return n, nil
}
