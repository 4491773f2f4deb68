package items

import (
	"context"

	"github.com/estermelatii/wishkeeper/internal/server/models"
)

// Repository is the wishlist item store.
type Repository interface {
	Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	GetByID(ctx context.Context, id string) (*models.WishlistItem, error)
	Update(ctx context.Context, item *models.WishlistItem) error
	ListByUser(ctx context.Context, userID string) ([]*models.WishlistItem, error)
	Delete(ctx context.Context, id string) error
	CountByUserAndStatus(ctx context.Context, userID string, status models.Status) (int64, error)
}
