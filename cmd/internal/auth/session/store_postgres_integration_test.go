package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are opt-in and require PORTER_TEST_DATABASE_URL. They use
// the porter schema applied by the app migrations.

func mustOpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := strings.TrimSpace(os.Getenv("PORTER_TEST_DATABASE_URL"))
	if url == "" {
		t.Skip("PORTER_TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	return pool
}

func TestPostgresStore_Lifecycle(t *testing.T) {
	pool := mustOpenTestPool(t)
	defer pool.Close()

	store := NewPostgresStore(pool)
	mgr := NewManager(DefaultConfig(), store)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	now := time.Now().UTC()

	tok, err := mgr.Establish(ctx, now, "it@test.com")
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	t.Cleanup(func() { _, _ = store.DeleteDead(context.Background(), time.Now().UTC().Add(48*time.Hour)) })

	email, err := mgr.Resolve(ctx, now.Add(time.Second), tok)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if email != "it@test.com" {
		t.Fatalf("resolved wrong email: %q", email)
	}

	if err := mgr.Revoke(ctx, now.Add(2*time.Second), tok); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := mgr.Resolve(ctx, now.Add(3*time.Second), tok); !errors.Is(err, ErrNotActive) {
		t.Fatalf("expected ErrNotActive after revoke, got %v", err)
	}
}
