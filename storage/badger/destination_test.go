package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDestinationRepo(t *testing.T) storage.DestinationRepository {
	t.Helper()
	destRepo, keyRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		keyRepo.Close()
		destRepo.Close()
		backend.Close()
	})
	return destRepo
}

func TestDestinationRepository_AddAndGet(t *testing.T) {
	repo := setupDestinationRepo(t)
	ctx := context.Background()

	added, err := repo.AddDestination(ctx, &core.Destination{
		OwnerId:    "owner-1",
		Name:       "Support Concierge",
		StoreIndex: "support-kb",
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.Id)
	require.False(t, added.InsertedAt.IsZero())
	assert.Equal(t, added.InsertedAt, added.UpdatedAt)

	got, err := repo.GetDestination(ctx, added.Id)
	require.NoError(t, err)
	assert.Equal(t, "Support Concierge", got.Name)
	assert.Equal(t, "support-kb", got.StoreIndex)
	assert.Equal(t, "owner-1", got.OwnerId)
}

func TestDestinationRepository_Add_Validation(t *testing.T) {
	repo := setupDestinationRepo(t)

	_, err := repo.AddDestination(context.Background(), &core.Destination{
		OwnerId: "owner-1",
		Name:    "No index",
	})
	require.ErrorIs(t, err, core.ErrInvalidDestination)
}

func TestDestinationRepository_Get_NotFound(t *testing.T) {
	repo := setupDestinationRepo(t)

	_, err := repo.GetDestination(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDestinationRepository_Update(t *testing.T) {
	repo := setupDestinationRepo(t)
	ctx := context.Background()

	added, err := repo.AddDestination(ctx, &core.Destination{
		OwnerId:    "owner-1",
		Name:       "Support",
		StoreIndex: "support-kb",
	})
	require.NoError(t, err)

	added.Name = "Support v2"
	updated, err := repo.UpdateDestination(ctx, added)
	require.NoError(t, err)
	assert.Equal(t, "Support v2", updated.Name)
	assert.Equal(t, added.InsertedAt, updated.InsertedAt)

	got, err := repo.GetDestination(ctx, added.Id)
	require.NoError(t, err)
	assert.Equal(t, "Support v2", got.Name)
}

func TestDestinationRepository_Update_NotFound(t *testing.T) {
	repo := setupDestinationRepo(t)

	_, err := repo.UpdateDestination(context.Background(), &core.Destination{
		Id:         "missing",
		OwnerId:    "owner-1",
		Name:       "Ghost",
		StoreIndex: "ghost-kb",
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDestinationRepository_Delete(t *testing.T) {
	repo := setupDestinationRepo(t)
	ctx := context.Background()

	added, err := repo.AddDestination(ctx, &core.Destination{
		OwnerId:    "owner-1",
		Name:       "Support",
		StoreIndex: "support-kb",
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDestination(ctx, added.Id))

	_, err = repo.GetDestination(ctx, added.Id)
	require.ErrorIs(t, err, storage.ErrNotFound)

	byOwner, err := repo.GetDestinationsByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, byOwner)
}

func TestDestinationRepository_GetByOwner(t *testing.T) {
	repo := setupDestinationRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Support", "Sales", "Billing"} {
		_, err := repo.AddDestination(ctx, &core.Destination{
			OwnerId:    "owner-1",
			Name:       name,
			StoreIndex: name + "-kb",
		})
		require.NoError(t, err)
	}
	_, err := repo.AddDestination(ctx, &core.Destination{
		OwnerId:    "owner-2",
		Name:       "Other",
		StoreIndex: "other-kb",
	})
	require.NoError(t, err)

	dests, err := repo.GetDestinationsByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, dests, 3)
	for _, dest := range dests {
		assert.Equal(t, "owner-1", dest.OwnerId)
	}
}

func TestDestinationRepository_List(t *testing.T) {
	repo := setupDestinationRepo(t)
	ctx := context.Background()

	all, err := repo.ListDestinations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for i, owner := range []string{"owner-1", "owner-1", "owner-2"} {
		_, err := repo.AddDestination(ctx, &core.Destination{
			OwnerId:    owner,
			Name:       "Dest",
			StoreIndex: fmt.Sprintf("kb-%d", i),
		})
		require.NoError(t, err)
	}

	all, err = repo.ListDestinations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
