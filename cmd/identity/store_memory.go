package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"porter/cmd/identity/ids"
)

// MemoryStore is an in-process Store for development and tests.
// One mutex guards the map, so the duplicate check and insert in Create are
// atomic, matching the Postgres unique-index semantics.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]User // email_norm -> user
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

// FindByEmail returns the user whose normalized email matches.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	norm := NormalizeEmail(email)
	if norm == "" {
		return User{}, OpError{Op: "identity.FindByEmail", Kind: ErrInvalidInput, Msg: "empty email"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[norm]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// Create inserts a new user, failing on duplicate normalized email.
func (s *MemoryStore) Create(ctx context.Context, email, passwordHash string) (User, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty email"}
	}
	if strings.TrimSpace(passwordHash) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "empty password hash"}
	}

	now := time.Now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		return User{}, err
	}
	norm := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[norm]; exists {
		return User{}, ConflictError{Op: op, Field: "email"}
	}

	u := User{
		ID:           id,
		Email:        email,
		EmailNorm:    norm,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	s.users[norm] = u
	return u, nil
}
