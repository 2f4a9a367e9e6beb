package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/entitlements/internal/entitlement/domain"
	apperrors "github.com/allisson/entitlements/internal/errors"
	"github.com/allisson/entitlements/internal/testutil"
)

func newTestResource(kind string, ownerKind domain.OwnerKind, ownerID uuid.UUID) *domain.Resource {
	return &domain.Resource{
		ID:         uuid.Must(uuid.NewV7()),
		Kind:       kind,
		ExternalID: uuid.Must(uuid.NewV7()),
		OwnerKind:  ownerKind,
		OwnerID:    ownerID,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestPostgreSQLResourceRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestUser(t, db, "postgres", "alice")
	resource := newTestResource("pipeline", domain.OwnerKindUser, ownerID)

	err := repo.Create(ctx, resource)
	assert.NoError(t, err)

	stored, err := repo.Get(ctx, resource.ID)
	assert.NoError(t, err)
	assert.Equal(t, resource.ID, stored.ID)
	assert.Equal(t, resource.Kind, stored.Kind)
	assert.Equal(t, resource.ExternalID, stored.ExternalID)
	assert.Equal(t, domain.OwnerKindUser, stored.OwnerKind)
	assert.Equal(t, ownerID, stored.OwnerID)
	// The stored row carries the timestamp the caller stamped, so creation
	// responses and later reads agree.
	assert.WithinDuration(t, resource.CreatedAt, stored.CreatedAt, time.Microsecond)
}

func TestPostgreSQLResourceRepository_Get_NotFound(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)

	resource, err := repo.Get(context.Background(), uuid.Must(uuid.NewV7()))
	assert.Error(t, err)
	assert.Nil(t, resource)
	assert.True(t, apperrors.Is(err, domain.ErrResourceNotFound))
}

func TestPostgreSQLResourceRepository_GetByExternalID(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	ownerID := testutil.CreateTestUser(t, db, "postgres", "alice")
	resource := newTestResource("pipeline", domain.OwnerKindUser, ownerID)
	require.NoError(t, repo.Create(ctx, resource))

	stored, err := repo.GetByExternalID(ctx, "pipeline", resource.ExternalID)
	assert.NoError(t, err)
	assert.Equal(t, resource.ID, stored.ID)

	// Same external id under a different kind is a different registration.
	_, err = repo.GetByExternalID(ctx, "report", resource.ExternalID)
	assert.True(t, apperrors.Is(err, domain.ErrResourceNotFound))
}

func TestPostgreSQLResourceRepository_ListByOwner(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	groupID := testutil.CreateTestGroup(t, db, "postgres", "data-platform")
	userID := testutil.CreateTestUser(t, db, "postgres", "alice")

	for range 2 {
		require.NoError(t, repo.Create(ctx, newTestResource("pipeline", domain.OwnerKindGroup, groupID)))
	}
	require.NoError(t, repo.Create(ctx, newTestResource("report", domain.OwnerKindUser, userID)))

	groupResources, err := repo.ListByOwner(ctx, domain.OwnerKindGroup, groupID, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, groupResources, 2)

	userResources, err := repo.ListByOwner(ctx, domain.OwnerKindUser, userID, 0, 10)
	assert.NoError(t, err)
	assert.Len(t, userResources, 1)
}

func TestPostgreSQLResourceRepository_ListByKind(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "alice")
	for _, kind := range []string{"pipeline", "pipeline", "report"} {
		require.NoError(t, repo.Create(ctx, newTestResource(kind, domain.OwnerKindUser, userID)))
	}

	pipelines, err := repo.ListByKind(ctx, "pipeline", 0, 10)
	assert.NoError(t, err)
	assert.Len(t, pipelines, 2)
}

func TestPostgreSQLResourceRepository_CountByOwner(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	groupID := testutil.CreateTestGroup(t, db, "postgres", "data-platform")
	testutil.CreateTestResource(t, db, "postgres", "pipeline", "GROUP", groupID)
	testutil.CreateTestResource(t, db, "postgres", "pipeline", "GROUP", groupID)

	count, err := repo.CountByOwner(ctx, domain.OwnerKindGroup, groupID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	empty, err := repo.CountByOwner(ctx, domain.OwnerKindGroup, uuid.Must(uuid.NewV7()))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), empty)
}

func TestPostgreSQLResourceRepository_Delete(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLResourceRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "alice")
	resourceID := testutil.CreateTestResource(t, db, "postgres", "pipeline", "USER", userID)

	err := repo.Delete(ctx, resourceID)
	assert.NoError(t, err)

	_, err = repo.Get(ctx, resourceID)
	assert.True(t, apperrors.Is(err, domain.ErrResourceNotFound))

	err = repo.Delete(ctx, resourceID)
	assert.True(t, apperrors.Is(err, domain.ErrResourceNotFound))
}
