package services

import (
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

// ComputeStats reduces an item set to a WishlistStats snapshot. It is a pure
// function of its input: order-independent, side-effect-free, and idempotent.
//
// Items with a nil price count toward the status totals but contribute
// nothing to the price sums. A category whose items all have nil prices
// appears in CountByCategory and is absent from PriceByCategory.
func ComputeStats(items []*models.WishlistItem) *models.WishlistStats {
	stats := &models.WishlistStats{
		PendingPriceSum: decimal.Zero,
		BoughtPriceSum:  decimal.Zero,
		CountByCategory: make(map[string]int64),
		PriceByCategory: make(map[string]decimal.Decimal),
	}

	for _, item := range items {
		switch item.Status {
		case models.StatusPending:
			stats.TotalPending++
			if item.Price != nil {
				stats.PendingPriceSum = stats.PendingPriceSum.Add(*item.Price)
			}
		case models.StatusBought:
			stats.TotalBought++
			if item.Price != nil {
				stats.BoughtPriceSum = stats.BoughtPriceSum.Add(*item.Price)
			}
		}

		if item.Category == nil {
			continue
		}
		stats.CountByCategory[*item.Category]++
		if item.Price != nil {
			sum, ok := stats.PriceByCategory[*item.Category]
			if !ok {
				sum = decimal.Zero
			}
			stats.PriceByCategory[*item.Category] = sum.Add(*item.Price)
		}
	}

	return stats
}
