package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/logging"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/estermelatii/wishkeeper/internal/server/repositories/repomanager"
	"github.com/estermelatii/wishkeeper/internal/server/storage"
	"github.com/shopspring/decimal"
)

// ItemForm carries the mutable fields of a wishlist item plus an optional
// image payload. Nil pointers mean "no value"; a nil SavedAmount is stored
// as zero.
type ItemForm struct {
	Name        string
	Price       *decimal.Decimal
	SavedAmount *decimal.Decimal
	Category    *string
	TargetDate  *time.Time
	ShopURL     *string
	Description *string

	Image     []byte
	ImageName string
}

// WishlistService owns the item lifecycle: creation, field updates,
// automatic status promotion, manual toggling, and deletion with blob
// cleanup.
type WishlistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	logger      logging.Logger
}

// NewWishlistService constructs a WishlistService.
func NewWishlistService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore,
	logger logging.Logger) *WishlistService {
	return &WishlistService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger.With("module", "wishlist_service"),
	}
}

// AddItem creates a new item scoped to owner. The item starts PENDING and
// the promotion check runs once against the just-set saved/price values.
// When an image payload is attached, the item is persisted first so its id
// can name the blob, the blob is stored, and the item is persisted again
// with the image reference. A blob failure propagates: the item must not
// silently end up without its image.
func (s *WishlistService) AddItem(ctx context.Context, owner string, form *ItemForm) (*models.WishlistItem, error) {
	repo := s.repomanager.Items(s.db)

	item := &models.WishlistItem{
		UserID: owner,
		Status: models.StatusPending,
	}
	applyForm(item, form)
	item.Promote()

	item, err := repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}

	if len(form.Image) > 0 {
		key := blobKey(item.ID, form.ImageName)
		ref, err := s.blobs.Store(ctx, key, form.Image, contentTypeFor(form.ImageName))
		if err != nil {
			return nil, fmt.Errorf("%w: storing image for item %s: %v", common.ErrStorage, item.ID, err)
		}
		item.ImageKey = &ref
		if err := repo.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("error saving image reference: %w", err)
		}
	}

	return item, nil
}

// UpdateItem applies the same field copy and promotion check as AddItem to an
// existing item. Items of other owners report common.ErrNotFound. A new
// image replaces the reference; cleaning up a stale blob left under a
// different key is best-effort.
func (s *WishlistService) UpdateItem(ctx context.Context, owner, itemID string, form *ItemForm) error {
	repo := s.repomanager.Items(s.db)

	item, err := repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != owner {
		return common.ErrNotFound
	}

	applyForm(item, form)
	item.Promote()

	if len(form.Image) > 0 {
		oldKey := item.ImageKey
		key := blobKey(item.ID, form.ImageName)
		ref, err := s.blobs.Store(ctx, key, form.Image, contentTypeFor(form.ImageName))
		if err != nil {
			return fmt.Errorf("%w: storing image for item %s: %v", common.ErrStorage, item.ID, err)
		}
		item.ImageKey = &ref

		if oldKey != nil && *oldKey != ref {
			if _, err := s.blobs.Delete(ctx, *oldKey); err != nil {
				s.logger.Warn(ctx, "failed to delete replaced image", "key", *oldKey, "error", err)
			}
		}
	}

	if err := repo.Update(ctx, item); err != nil {
		return fmt.Errorf("error updating item: %w", err)
	}
	return nil
}

// ToggleStatus flips PENDING and BOUGHT unconditionally, ignoring the
// saved/price relationship.
func (s *WishlistService) ToggleStatus(ctx context.Context, itemID string) error {
	repo := s.repomanager.Items(s.db)

	item, err := repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	item.Toggle()

	if err := repo.Update(ctx, item); err != nil {
		return fmt.Errorf("error toggling item: %w", err)
	}
	return nil
}

// DeleteItem removes the item and best-effort deletes its image blob.
// Deleting a non-existent item is a no-op, not an error; a blob-store
// failure is logged and does not block record deletion.
func (s *WishlistService) DeleteItem(ctx context.Context, itemID string) error {
	repo := s.repomanager.Items(s.db)

	item, err := repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	if item.ImageKey != nil {
		if _, err := s.blobs.Delete(ctx, *item.ImageKey); err != nil {
			s.logger.Warn(ctx, "failed to delete item image", "key", *item.ImageKey, "error", err)
		}
	}

	if err := repo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("error deleting item: %w", err)
	}
	return nil
}

// ListItems returns all items of owner, newest-created first.
func (s *WishlistService) ListItems(ctx context.Context, owner string) ([]*models.WishlistItem, error) {
	items, err := s.repomanager.Items(s.db).ListByUser(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}
	return items, nil
}

// GetItem returns one item of owner or common.ErrNotFound.
func (s *WishlistService) GetItem(ctx context.Context, owner, itemID string) (*models.WishlistItem, error) {
	item, err := s.repomanager.Items(s.db).GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != owner {
		return nil, common.ErrNotFound
	}
	return item, nil
}

// CountPending counts the owner's PENDING items.
func (s *WishlistService) CountPending(ctx context.Context, owner string) (int64, error) {
	return s.repomanager.Items(s.db).CountByUserAndStatus(ctx, owner, models.StatusPending)
}

// CountBought counts the owner's BOUGHT items.
func (s *WishlistService) CountBought(ctx context.Context, owner string) (int64, error) {
	return s.repomanager.Items(s.db).CountByUserAndStatus(ctx, owner, models.StatusBought)
}

// Stats loads the owner's items and reduces them to a fresh snapshot.
func (s *WishlistService) Stats(ctx context.Context, owner string) (*models.WishlistStats, error) {
	items, err := s.ListItems(ctx, owner)
	if err != nil {
		return nil, err
	}
	return ComputeStats(items), nil
}

// applyForm copies the form fields onto the item. The saved amount defaults
// to zero so the promotion comparison always has a concrete value.
func applyForm(item *models.WishlistItem, form *ItemForm) {
	item.Name = form.Name
	item.Price = form.Price
	if form.SavedAmount != nil {
		item.SavedAmount = *form.SavedAmount
	} else {
		item.SavedAmount = decimal.Zero
	}
	item.Category = form.Category
	item.TargetDate = form.TargetDate
	item.ShopURL = form.ShopURL
	item.Description = form.Description
}

// blobKey names an item's image blob after the item id, keeping the original
// file extension.
func blobKey(itemID, imageName string) string {
	return "item_" + itemID + filepath.Ext(imageName)
}

func contentTypeFor(imageName string) string {
	return mime.TypeByExtension(filepath.Ext(imageName))
}
