package models

import "github.com/shopspring/decimal"

// WishlistStats is a derived, non-persisted view over a user's items,
// recomputed fresh on every request.
//
// TotalCancelled is carried for API compatibility but no lifecycle transition
// produces a cancelled item, so it is always zero.
//
// A category whose items all have nil prices appears in CountByCategory but
// is absent from PriceByCategory; callers must treat the missing key as "no
// priced items", not as a zero total.
type WishlistStats struct {
	TotalPending   int64
	TotalBought    int64
	TotalCancelled int64

	PendingPriceSum decimal.Decimal
	BoughtPriceSum  decimal.Decimal

	CountByCategory map[string]int64
	PriceByCategory map[string]decimal.Decimal
}
