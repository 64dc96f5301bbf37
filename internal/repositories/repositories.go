package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TokenKey is the row key the bearer token is stored under.
const TokenKey = "token"

// TokenRepository persists the session token in the tokens table.
//
// It satisfies the store the session manager expects.
type TokenRepository struct {
	db  *sql.DB
	key string
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db, key: TokenKey}
}

// Load returns the persisted token, or an empty string when none is stored.
func (r *TokenRepository) Load(ctx context.Context) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM tokens WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query token: %w", err)
	}
	return value, nil
}

// Save replaces the persisted token. Saving an empty token clears it.
func (r *TokenRepository) Save(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return r.Clear(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tokens (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, r.key, token, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit token: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an empty store is not an error.
func (r *TokenRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, r.key); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// UpdatedAt reports when the token was last written. ok is false when no token is stored.
func (r *TokenRepository) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT updated_at FROM tokens WHERE key = ?`, r.key).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query token timestamp: %w", err)
	}
	return t, true, nil
}
