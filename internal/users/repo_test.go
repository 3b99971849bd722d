package users

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  confirmed BOOLEAN NOT NULL DEFAULT FALSE,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	return db
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "buyer1",
		PasswordHash: "$argon2id$stub",
		Email:        "buyer1@example.com",
		FirstName:    "Ada",
		LastName:     "Lovelace",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byName, err := repo.FindByUsername(ctx, "buyer1")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "buyer1@example.com", byID.Email)

	_, err = repo.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryMarkConfirmed(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     "buyer1",
		PasswordHash: "$argon2id$stub",
		Email:        "buyer1@example.com",
	})
	require.NoError(t, err)
	require.False(t, created.Confirmed)

	require.NoError(t, repo.MarkConfirmed(ctx, created.ID))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Confirmed)
}
