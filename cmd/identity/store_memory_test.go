package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_CreateAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u, err := s.Create(ctx, "User@Test.com", "$argon2id$fake")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if u.Email != "User@Test.com" {
		t.Fatalf("stored email should keep original casing, got %q", u.Email)
	}
	if u.EmailNorm != "user@test.com" {
		t.Fatalf("unexpected normalized email: %q", u.EmailNorm)
	}

	got, err := s.FindByEmail(ctx, "user@test.COM")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("lookup returned wrong user")
	}
}

func TestMemoryStore_FindAbsent(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.FindByEmail(context.Background(), "nobody@test.com")
	if !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, "dup@test.com", "h1"); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := s.Create(ctx, "DUP@test.com", "h2")
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var ce ConflictError
	if !errors.As(err, &ce) || ce.Field != "email" {
		t.Fatalf("expected ConflictError on email, got %v", err)
	}
}

func TestMemoryStore_ConcurrentRegistration_OneWinner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, "race@test.com", "h")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case IsConflict(err):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", winners)
	}
}

func TestMemoryStore_InvalidInput(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Create(ctx, "  ", "h"); !IsInvalidInput(err) {
		t.Fatalf("expected invalid input for blank email, got %v", err)
	}
	if _, err := s.Create(ctx, "a@x.com", " "); !IsInvalidInput(err) {
		t.Fatalf("expected invalid input for blank hash, got %v", err)
	}
	if _, err := s.FindByEmail(ctx, ""); !IsInvalidInput(err) {
		t.Fatalf("expected invalid input for blank lookup, got %v", err)
	}
}
