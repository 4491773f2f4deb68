package authtokens

import (
	"context"

	"github.com/estermelatii/wishkeeper/internal/server/models"
)

// Repository persists issued bearer tokens for revocation bookkeeping.
// Records are immutable; revocation is deletion.
type Repository interface {
	Create(ctx context.Context, userID string, token string) error
	Find(ctx context.Context, token string) (*models.AuthToken, error)
	Delete(ctx context.Context, token string) error
}
