package identity

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Integration tests are opt-in and require PORTER_TEST_DATABASE_URL.

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

func mustCreateTestSchema(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	schema := fmt.Sprintf("porter_test_%d", time.Now().UnixNano())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, `CREATE SCHEMA `+pgIdentQ(schema)); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = pool.Exec(ctx, `DROP SCHEMA `+pgIdentQ(schema)+` CASCADE`)
	})

	if _, err := pool.Exec(ctx, `
		CREATE TABLE `+pgIdentQ(schema)+`.users (
			id            text PRIMARY KEY,
			email         text NOT NULL,
			email_norm    text NOT NULL,
			password_hash text NOT NULL,
			created_at    timestamptz NOT NULL
		)`); err != nil {
		t.Fatalf("create users table: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		CREATE UNIQUE INDEX uq_users_email_norm
		ON `+pgIdentQ(schema)+`.users (email_norm)`); err != nil {
		t.Fatalf("create unique index: %v", err)
	}

	return schema
}

func pgIdentQ(s string) string { return `"` + s + `"` }

func TestPostgresStore_Create_ConflictEmail_CaseInsensitive(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()
	schema := mustCreateTestSchema(t, pool)

	s, err := NewPostgresStore(pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := s.Create(ctx, "User@Test.com", "h1"); err != nil {
		t.Fatalf("create user 1: %v", err)
	}

	_, err = s.Create(ctx, "user@test.COM", "h2")
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPostgresStore_FindByEmail(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()
	schema := mustCreateTestSchema(t, pool)

	s, err := NewPostgresStore(pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, err := s.Create(ctx, "find@test.com", "h")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.FindByEmail(ctx, "FIND@test.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("lookup returned wrong user")
	}

	if _, err := s.FindByEmail(ctx, "absent@test.com"); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStore_ConcurrentRegistration_OneWinner(t *testing.T) {
	t.Parallel()

	pool := mustOpenTestPool(t)
	defer pool.Close()
	schema := mustCreateTestSchema(t, pool)

	s, err := NewPostgresStore(pool, WithSchema(schema))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const attempts = 8
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
