package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the wishlist item lifecycle state.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusBought  Status = "BOUGHT"
)

// WishlistItem is a single tracked purchase intention. Price, Category,
// TargetDate, ShopURL, Description and ImageKey are nullable; SavedAmount
// defaults to zero. Monetary fields are exact decimals.
type WishlistItem struct {
	ID          string
	UserID      string
	Name        string
	Price       *decimal.Decimal
	SavedAmount decimal.Decimal
	Category    *string
	TargetDate  *time.Time
	ShopURL     *string
	Description *string
	ImageKey    *string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Toggle flips the status between PENDING and BOUGHT unconditionally.
func (i *WishlistItem) Toggle() {
	if i.Status == StatusPending {
		i.Status = StatusBought
	} else {
		i.Status = StatusPending
	}
}

// Promote moves a PENDING item to BOUGHT when the saved amount has reached a
// non-nil price. It never demotes: a BOUGHT item stays BOUGHT regardless of
// the saved/price relationship.
func (i *WishlistItem) Promote() {
	if i.Price == nil {
		return
	}
	if i.Status == StatusPending && i.SavedAmount.Cmp(*i.Price) >= 0 {
		i.Status = StatusBought
	}
}
