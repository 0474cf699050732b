package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (porter.sessions).
// The pool is owned by the caller.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create inserts a new session row. The unique index on token_hash guards
// against the (astronomically unlikely) digest collision; a collision is
// surfaced as an error rather than silently overwriting another session.
func (s *PostgresStore) Create(ctx context.Context, row Row) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO porter.sessions (
			id, email, token_hash,
			created_at, last_used_at, expires_at, revoked_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULL)
	`, row.ID, row.Email, row.TokenHash, row.CreatedAt, row.LastUsedAt, row.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return errors.New("session: token hash collision")
		}
		return err
	}
	return nil
}

// GetByTokenHash loads a session row; absence is ErrNotActive.
func (s *PostgresStore) GetByTokenHash(ctx context.Context, tokenHash string) (Row, error) {
	var row Row

	err := s.pool.QueryRow(ctx, `
		SELECT id, email, token_hash,
		       created_at, last_used_at, expires_at, revoked_at
		FROM porter.sessions
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&row.ID,
		&row.Email,
		&row.TokenHash,
		&row.CreatedAt,
		&row.LastUsedAt,
		&row.ExpiresAt,
		&row.RevokedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, ErrNotActive
	}
	if err != nil {
		return Row{}, err
	}

	return row, nil
}

// Touch updates last_used_at for an active session.
func (s *PostgresStore) Touch(ctx context.Context, now time.Time, tokenHash string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE porter.sessions
		SET last_used_at = $2
		WHERE token_hash = $1
		  AND revoked_at IS NULL
		  AND expires_at > $2
	`, tokenHash, now)
	return err
}

// Revoke marks a session revoked (idempotent; unknown hash is a no-op).
func (s *PostgresStore) Revoke(ctx context.Context, now time.Time, tokenHash string, reason string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE porter.sessions
		SET revoked_at = COALESCE(revoked_at, $2),
		    revocation_reason = COALESCE(revocation_reason, $3)
		WHERE token_hash = $1
	`, tokenHash, now, reason)
	return err
}

// DeleteDead removes expired and revoked rows.
func (s *PostgresStore) DeleteDead(ctx context.Context, now time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `
		DELETE FROM porter.sessions
		WHERE revoked_at IS NOT NULL
		   OR expires_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
