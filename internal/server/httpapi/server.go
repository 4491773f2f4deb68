// Package httpapi exposes the wishlist over a JSON/HTTP API with bearer-token
// authentication.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/estermelatii/wishkeeper/internal/logging"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/estermelatii/wishkeeper/internal/server/services"
)

// AuthProvider is the slice of the auth service the transport needs.
type AuthProvider interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ResolveToken(ctx context.Context, token string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) error
}

// WishlistProvider is the slice of the wishlist service the transport needs.
type WishlistProvider interface {
	AddItem(ctx context.Context, owner string, form *services.ItemForm) (*models.WishlistItem, error)
	UpdateItem(ctx context.Context, owner, itemID string, form *services.ItemForm) error
	ToggleStatus(ctx context.Context, itemID string) error
	DeleteItem(ctx context.Context, itemID string) error
	ListItems(ctx context.Context, owner string) ([]*models.WishlistItem, error)
	GetItem(ctx context.Context, owner, itemID string) (*models.WishlistItem, error)
	CountPending(ctx context.Context, owner string) (int64, error)
	CountBought(ctx context.Context, owner string) (int64, error)
	Stats(ctx context.Context, owner string) (*models.WishlistStats, error)
}

type Server struct {
	address  string
	logger   logging.Logger
	auth     AuthProvider
	wishlist WishlistProvider
}

func NewServer(a string, l logging.Logger, auth AuthProvider, wishlist WishlistProvider) *Server {
	return &Server{
		address:  a,
		logger:   l.With("module", "http_server"),
		auth:     auth,
		wishlist: wishlist,
	}
}

// Handler assembles the route table with logging and auth middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("POST /api/auth/logout", s.requireAuth(http.HandlerFunc(s.handleLogout)))

	mux.Handle("GET /api/me", s.requireAuth(http.HandlerFunc(s.handleProfile)))
	mux.Handle("PUT /api/me", s.requireAuth(http.HandlerFunc(s.handleUpdateName)))

	mux.Handle("GET /api/wishlist", s.requireAuth(http.HandlerFunc(s.handleListItems)))
	mux.Handle("POST /api/wishlist", s.requireAuth(http.HandlerFunc(s.handleCreateItem)))
	mux.Handle("GET /api/wishlist/stats", s.requireAuth(http.HandlerFunc(s.handleStats)))
	mux.Handle("GET /api/wishlist/{id}", s.requireAuth(http.HandlerFunc(s.handleGetItem)))
	mux.Handle("PUT /api/wishlist/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdateItem)))
	mux.Handle("POST /api/wishlist/{id}/toggle", s.requireAuth(http.HandlerFunc(s.handleToggleItem)))
	mux.Handle("DELETE /api/wishlist/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteItem)))

	return s.requestLogger(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
