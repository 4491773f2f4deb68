package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"testing"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/dbx"
	"github.com/estermelatii/wishkeeper/internal/logging"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	authtokensrepo "github.com/estermelatii/wishkeeper/internal/server/repositories/authtokens"
	itemsrepo "github.com/estermelatii/wishkeeper/internal/server/repositories/items"
	usersrepo "github.com/estermelatii/wishkeeper/internal/server/repositories/users"
)

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- in-memory fakes shared by the service tests ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	createErr error
	nextID    string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byEmail: map[string]*models.User{},
		byID:    map[string]*models.User{},
		nextID:  "u-1",
	}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) UpdateName(ctx context.Context, id string, name string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Name = name
	return nil
}

type fakeTokensRepo struct {
	records   map[string]string // token -> userID
	createErr error
	deleteErr error
}

func newFakeTokensRepo() *fakeTokensRepo {
	return &fakeTokensRepo{records: map[string]string{}}
}

func (f *fakeTokensRepo) Create(ctx context.Context, userID string, token string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records[token] = userID
	return nil
}

func (f *fakeTokensRepo) Find(ctx context.Context, token string) (*models.AuthToken, error) {
	uid, ok := f.records[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.AuthToken{UserID: uid, Token: token}, nil
}

func (f *fakeTokensRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.records, token)
	return nil
}

type fakeItemsRepo struct {
	items  map[string]*models.WishlistItem
	nextID int

	createErr error
	updateErr error
}

func newFakeItemsRepo() *fakeItemsRepo {
	return &fakeItemsRepo{items: map[string]*models.WishlistItem{}, nextID: 1}
}

func (f *fakeItemsRepo) Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	item.ID = "i-" + strconv.Itoa(f.nextID)
	f.nextID++
	cp := *item
	f.items[item.ID] = &cp
	return item, nil
}

func (f *fakeItemsRepo) GetByID(ctx context.Context, id string) (*models.WishlistItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeItemsRepo) Update(ctx context.Context, item *models.WishlistItem) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.items[item.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemsRepo) ListByUser(ctx context.Context, userID string) ([]*models.WishlistItem, error) {
	var out []*models.WishlistItem
	for _, item := range f.items {
		if item.UserID == userID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeItemsRepo) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeItemsRepo) CountByUserAndStatus(ctx context.Context, userID string, status models.Status) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.UserID == userID && item.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTokensRepo
	i *fakeItemsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) AuthTokens(db dbx.DBTX) authtokensrepo.Repository       { return m.t }
func (m *fakeRepoManager) Items(db dbx.DBTX) itemsrepo.Repository                 { return m.i }

type fakeBlobStore struct {
	stored   map[string][]byte
	deleted  []string
	storeErr error
	delErr   error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{stored: map[string][]byte{}}
}

func (f *fakeBlobStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.stored[key] = data
	return key, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, ref string) (bool, error) {
	f.deleted = append(f.deleted, ref)
	if f.delErr != nil {
		return false, f.delErr
	}
	delete(f.stored, ref)
	return true, nil
}

// plainHasher avoids bcrypt cost in service tests.
type plainHasher struct{}

func (plainHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }
func (plainHasher) Matches(raw, hash string) bool   { return "hashed:"+raw == hash }
