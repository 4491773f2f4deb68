package users

import (
	"context"

	"github.com/estermelatii/wishkeeper/internal/server/models"
)

// Repository is the identity store. Implementations must enforce email
// uniqueness; a conflicting insert surfaces as common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id string, name string) error
}
