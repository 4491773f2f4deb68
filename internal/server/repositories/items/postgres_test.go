package items

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func itemRowColumns() []string {
	return []string{"id", "user_id", "name", "price", "saved_amount", "category",
		"target_date", "shop_url", "description", "image_key", "status", "created_at", "updated_at"}
}

func TestCreate_FillsGeneratedFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("i-1", now, now)
	mock.ExpectQuery(`INSERT\s+INTO\s+wishlist_items`).WillReturnRows(rows)

	item := &models.WishlistItem{
		UserID:      "u-1",
		Name:        "Camera",
		SavedAmount: decimal.Zero,
		Status:      models.StatusPending,
	}
	got, err := repo.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "i-1" {
		t.Fatalf("id not filled: %+v", got)
	}
}

func TestGetByID_NullableColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(itemRowColumns()).
		AddRow("i-1", "u-1", "Camera", nil, "0", nil, nil, nil, nil, nil, "PENDING", now, now)
	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*name`).
		WithArgs("i-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "i-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Price != nil || got.Category != nil || got.TargetDate != nil || got.ImageKey != nil {
		t.Fatalf("nullable columns must map to nil pointers: %+v", got)
	}
	if !got.SavedAmount.Equal(decimal.Zero) {
		t.Fatalf("saved amount: got %s, want 0", got.SavedAmount)
	}
	if got.Status != models.StatusPending {
		t.Fatalf("status: got %s", got.Status)
	}
}

func TestGetByID_PopulatedColumns(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(itemRowColumns()).
		AddRow("i-2", "u-1", "Book", "50.00", "12.50", "Books", now, "https://shop.example",
			"a novel", "item_i-2.png", "BOUGHT", now, now)
	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*name`).
		WithArgs("i-2").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "i-2")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Price == nil || !got.Price.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("price: %+v", got.Price)
	}
	if got.Category == nil || *got.Category != "Books" {
		t.Fatalf("category: %+v", got.Category)
	}
	if got.ImageKey == nil || *got.ImageKey != "item_i-2.png" {
		t.Fatalf("image key: %+v", got.ImageKey)
	}
	if got.Status != models.StatusBought {
		t.Fatalf("status: got %s", got.Status)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*name`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+wishlist_items\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.WishlistItem{ID: "missing", Status: models.StatusPending})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestListByUser_OrderedQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(itemRowColumns()).
		AddRow("i-2", "u-1", "Newer", nil, "0", nil, nil, nil, nil, nil, "PENDING", now, now).
		AddRow("i-1", "u-1", "Older", nil, "0", nil, nil, nil, nil, nil, "PENDING", now.Add(-time.Hour), now)
	mock.ExpectQuery(`ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Newer" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestDelete_MissingIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+wishlist_items`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete of missing item must be a no-op, got %v", err)
	}
}

func TestCountByUserAndStatus(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT\s+COUNT`).
		WithArgs("u-1", "PENDING").
		WillReturnRows(rows)

	n, err := repo.CountByUserAndStatus(context.Background(), "u-1", models.StatusPending)
	if err != nil {
		t.Fatalf("CountByUserAndStatus error: %v", err)
	}
	if n != 3 {
		t.Fatalf("count: got %d, want 3", n)
	}
}
