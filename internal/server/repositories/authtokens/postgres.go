// Package authtokens provides a PostgreSQL-backed repository recording
// issued bearer tokens so they can be revoked on logout.
package authtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/dbx"
	"github.com/estermelatii/wishkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create records a newly issued token for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string) error {
	query := `
		INSERT INTO auth_tokens (user_id, token)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the token record for the given token string.
// If not found, it returns common.ErrNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.AuthToken, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM auth_tokens
		WHERE token = $1
	`
	rec := &models.AuthToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&rec.ID, &rec.UserID, &rec.Token, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Delete removes a token record by its token string.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
