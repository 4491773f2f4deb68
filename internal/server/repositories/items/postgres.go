// Package items provides the PostgreSQL-backed wishlist item store.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/dbx"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/shopspring/decimal"
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

const itemColumns = `id, user_id, name, price, saved_amount, category, target_date,
		shop_url, description, image_key, status, created_at, updated_at`

// Create inserts a new item and fills in the generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items
			(user_id, name, price, saved_amount, category, target_date, shop_url, description, image_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.Name, item.Price, item.SavedAmount, item.Category,
		item.TargetDate, item.ShopURL, item.Description, item.ImageKey, item.Status).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// GetByID returns the item with the given id or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.WishlistItem, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist_items WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// Update rewrites all mutable fields of an existing item.
func (r *PostgresRepository) Update(ctx context.Context, item *models.WishlistItem) error {
	query := `
		UPDATE wishlist_items SET
			name = $2, price = $3, saved_amount = $4, category = $5, target_date = $6,
			shop_url = $7, description = $8, image_key = $9, status = $10, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Price, item.SavedAmount, item.Category,
		item.TargetDate, item.ShopURL, item.Description, item.ImageKey, item.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListByUser returns all items of userID ordered newest-created first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.WishlistItem, error) {
	query := `SELECT ` + itemColumns + `
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []*models.WishlistItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the item with the given id. Deleting a missing item is not
// an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM wishlist_items WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CountByUserAndStatus counts the user's items in the given status.
func (r *PostgresRepository) CountByUserAndStatus(ctx context.Context, userID string, status models.Status) (int64, error) {
	query := `SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1 AND status = $2`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// scanItem reads one row into a WishlistItem, converting SQL NULLs to nil
// pointers on the model.
func scanItem(scan func(dest ...any) error) (*models.WishlistItem, error) {
	var (
		item        models.WishlistItem
		price       decimal.NullDecimal
		category    sql.NullString
		targetDate  sql.NullTime
		shopURL     sql.NullString
		description sql.NullString
		imageKey    sql.NullString
	)

	err := scan(
		&item.ID, &item.UserID, &item.Name, &price, &item.SavedAmount,
		&category, &targetDate, &shopURL, &description, &imageKey,
		&item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		p := price.Decimal
		item.Price = &p
	}
	if category.Valid {
		item.Category = &category.String
	}
	if targetDate.Valid {
		d := targetDate.Time
		item.TargetDate = &d
	}
	if shopURL.Valid {
		item.ShopURL = &shopURL.String
	}
	if description.Valid {
		item.Description = &description.String
	}
	if imageKey.Valid {
		item.ImageKey = &imageKey.String
	}

	return &item, nil
}
