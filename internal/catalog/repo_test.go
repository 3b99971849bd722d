package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositorySearchMatchesSubstringCaseInsensitively(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "Walnut Desk", "120.00")
	mustCreateProduct(t, db, "Standing DESK Pro", "340.50")
	mustCreateProduct(t, db, "Office Chair", "89.99")

	products, total, err := repo.Search(ctx, "desk", 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, products, 2)

	names := []string{products[0].Name, products[1].Name}
	require.Contains(t, names, "Walnut Desk")
	require.Contains(t, names, "Standing DESK Pro")
}

func TestRepositorySearchPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "Lamp A", "10.00")
	mustCreateProduct(t, db, "Lamp B", "11.00")
	mustCreateProduct(t, db, "Lamp C", "12.00")

	page, total, err := repo.Search(ctx, "lamp", 2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	require.Equal(t, "Lamp A", page[0].Name)

	rest, _, err := repo.Search(ctx, "lamp", 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "Lamp C", rest[0].Name)
}

func TestRepositorySearchMatchesDescription(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	chair := &models.Product{
		ID:          uuid.New(),
		Name:        "Aeron",
		Description: "Ergonomic office chair",
		Price:       decimal.RequireFromString("980.00"),
	}
	require.NoError(t, db.Create(chair).Error)
	mustCreateProduct(t, db, "Walnut Desk", "120.00")

	products, total, err := repo.Search(ctx, "CHAIR", 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	require.Equal(t, "Aeron", products[0].Name)
}

func TestRepositoryCount(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	mustCreateProduct(t, db, "Lamp", "10.00")
	mustCreateProduct(t, db, "Desk", "120.00")

	total, err = repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestRepositoryFindByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateProduct(t, db, "Bookshelf", "75.25")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.True(t, found.Price.Equal(decimal.RequireFromString("75.25")))

	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
