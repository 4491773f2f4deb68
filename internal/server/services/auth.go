// Package services contains server-side business logic: authentication,
// the wishlist item lifecycle, and derived statistics.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/logging"
	"github.com/estermelatii/wishkeeper/internal/server/auth"
	"github.com/estermelatii/wishkeeper/internal/server/config"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/estermelatii/wishkeeper/internal/server/repositories/repomanager"
)

type ctxKey string

const userCtxKey ctxKey = "currentUser"

// ContextWithUser returns a child context carrying the resolved identity.
// The transport layer resolves the token once at the boundary and threads the
// user through the request context; services never re-derive it mid-pipeline.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the identity stored by ContextWithUser, or nil for
// an anonymous context.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userCtxKey).(*models.User)
	return user
}

// AuthService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a bearer token
// - ResolveToken: turn an inbound token into an identity
// - Logout: revoke a recorded token
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        auth.PasswordHasher
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		logger:        logger.With("module", "auth_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with a bcrypt password hash and the default
// role. A duplicate email yields common.ErrAlreadyExists, whether caught by
// the pre-check or by the store's unique constraint on a concurrent insert.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.DefaultRole,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "email", email)
	return created, nil
}

// Login verifies the credentials and returns a signed bearer token with
// subject = email and the user's id embedded. The issued token is recorded
// in the token store best-effort: a failure to record is logged and does not
// fail the login, since the token is valid standalone.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrInternal
	}

	if !s.hasher.Matches(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Email, user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrInternal
	}

	if err := s.repomanager.AuthTokens(s.db).Create(ctx, user.ID, token); err != nil {
		s.logger.Warn(ctx, "failed to record issued token", "error", err)
	}

	return token, nil
}

// Logout revokes a recorded token by deleting it from the token store.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.repomanager.AuthTokens(s.db).Delete(ctx, token); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	return nil
}

// ResolveToken verifies the bearer token and loads the identity it asserts.
// Any token or lookup failure surfaces as common.ErrUnauthorized; callers
// must not learn why authentication failed.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	return user, nil
}

// CurrentUser returns the identity resolved by the transport layer, or nil
// for an anonymous context. Callers must treat nil as "reject", never as an
// implicit guest identity.
func (s *AuthService) CurrentUser(ctx context.Context) *models.User {
	return UserFromContext(ctx)
}

// UpdateName changes the display name of the given user.
func (s *AuthService) UpdateName(ctx context.Context, userID, name string) error {
	if err := s.repomanager.Users(s.db).UpdateName(ctx, userID, name); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}
