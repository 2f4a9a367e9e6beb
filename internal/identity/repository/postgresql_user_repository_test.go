package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/identity/domain"
	"github.com/allisson/entitlements/internal/testutil"
)

func newTestUser(username string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed_password",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewPostgreSQLUserRepository(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := newTestUser("alice")
	user.Phone = "+15550100"

	err := repo.Create(ctx, user)
	assert.NoError(t, err)

	// Verify the user was created
	createdUser, err := repo.Get(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, createdUser.ID)
	assert.Equal(t, user.Username, createdUser.Username)
	assert.Equal(t, user.Email, createdUser.Email)
	assert.Equal(t, user.Phone, createdUser.Phone)
	assert.Equal(t, user.Password, createdUser.Password)
	// The stored row carries the timestamps the caller stamped, so creation
	// responses and later reads agree.
	assert.WithinDuration(t, user.CreatedAt, createdUser.CreatedAt, time.Microsecond)
	assert.WithinDuration(t, user.UpdatedAt, createdUser.UpdatedAt, time.Microsecond)
}

func TestPostgreSQLUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))

	duplicate := newTestUser("alice")
	duplicate.Email = "other@example.com"
	err := repo.Create(ctx, duplicate)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrUserAlreadyExists))
}

func TestPostgreSQLUserRepository_Get_NotFound(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	notFoundUUID := uuid.Must(uuid.NewV7())
	user, err := repo.Get(ctx, notFoundUUID)
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))
}

func TestPostgreSQLUserRepository_GetByUsername(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	expectedUser := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, expectedUser))

	user, err := repo.GetByUsername(ctx, "alice")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, expectedUser.ID, user.ID)
	assert.Equal(t, expectedUser.Username, user.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))
}

func TestPostgreSQLUserRepository_Update(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))

	user.Email = "new@example.com"
	user.Phone = "+15550199"
	err := repo.Update(ctx, user)
	assert.NoError(t, err)

	updated, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "+15550199", updated.Phone)
	// Username is immutable
	assert.Equal(t, "alice", updated.Username)
}

func TestPostgreSQLUserRepository_Update_NotFound(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := newTestUser("ghost")
	err := repo.Update(ctx, user)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))
}

func TestPostgreSQLUserRepository_Delete(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))

	err := repo.Delete(ctx, user.ID)
	assert.NoError(t, err)

	_, err = repo.Get(ctx, user.ID)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))

	// Deleting again reports not found
	err = repo.Delete(ctx, user.ID)
	assert.True(t, apperrors.Is(err, domain.ErrUserNotFound))
}

func TestPostgreSQLUserRepository_List(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLUserRepository(db)
	ctx := context.Background()

	for _, username := range []string{"alice", "bob", "carol"} {
		require.NoError(t, repo.Create(ctx, newTestUser(username)))
	}

	users, err := repo.List(ctx, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, users, 3)

	page, err := repo.List(ctx, 1, 1)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
}
