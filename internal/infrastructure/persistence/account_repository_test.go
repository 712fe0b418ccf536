package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/staffpoint/backend/internal/domain/identity"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			national_id INTEGER NOT NULL UNIQUE,
			employee_number INTEGER NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func newTestAccount(t *testing.T, nationalID int64, role identity.Role) *identity.Account {
	t.Helper()
	account, err := identity.NewAccount(nationalID, 1042, "correct horse battery", role)
	require.NoError(t, err)
	return account
}

func TestGormAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and reads back an account", func(t *testing.T) {
		repo := NewGormAccountRepository(setupAccountTestDB(t))
		account := newTestAccount(t, 11223344556, identity.RoleAdmin)

		require.NoError(t, repo.Create(ctx, account))

		found, err := repo.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(11223344556), found.NationalID)
		assert.Equal(t, identity.RoleAdmin, found.Role)
		assert.True(t, found.VerifyPassword("correct horse battery"))
	})

	t.Run("duplicate national ID is rejected", func(t *testing.T) {
		repo := NewGormAccountRepository(setupAccountTestDB(t))

		require.NoError(t, repo.Create(ctx, newTestAccount(t, 11223344556, identity.RoleAdmin)))

		err := repo.Create(ctx, newTestAccount(t, 11223344556, identity.RoleUser))
		assert.ErrorIs(t, err, identity.ErrAlreadyRegistered)
	})
}

func TestGormAccountRepository_FindByNationalID(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccountRepository(setupAccountTestDB(t))

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByNationalID(ctx, 11223344556)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("found", func(t *testing.T) {
		account := newTestAccount(t, 11223344556, identity.RoleUser)
		require.NoError(t, repo.Create(ctx, account))

		found, err := repo.FindByNationalID(ctx, 11223344556)
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
	})
}

func TestGormAccountRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccountRepository(setupAccountTestDB(t))

	account := newTestAccount(t, 11223344556, identity.RoleUser)
	require.NoError(t, repo.Create(ctx, account))

	require.NoError(t, account.SetPassword("a brand new password"))
	require.NoError(t, repo.Update(ctx, account))

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, found.VerifyPassword("a brand new password"))
	assert.False(t, found.VerifyPassword("correct horse battery"))
	assert.Equal(t, 2, found.GetVersion())

	t.Run("missing account", func(t *testing.T) {
		ghost := newTestAccount(t, 99887766554, identity.RoleUser)
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})
}

func TestGormAccountRepository_ExistsAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccountRepository(setupAccountTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	exists, err := repo.ExistsByNationalID(ctx, 11223344556)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, newTestAccount(t, 11223344556, identity.RoleAdmin)))
	require.NoError(t, repo.Create(ctx, newTestAccount(t, 99887766554, identity.RoleUser)))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	exists, err = repo.ExistsByNationalID(ctx, 11223344556)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormAccountRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormAccountRepository(setupAccountTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
