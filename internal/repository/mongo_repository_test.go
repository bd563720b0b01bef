package repository

import (
	"context"
	"testing"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) MenuRepository {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	return NewMongoRepository(db)
}

func seedItem(t *testing.T, repo MenuRepository) *domain.MenuItem {
	t.Helper()
	item := &domain.MenuItem{
		ID:          uuid.NewString(),
		StallID:     "7",
		Name:        "Paneer Roll",
		Price:       120,
		IsVeg:       true,
		Category:    "Rolls",
		IsAvailable: true,
		Extras: []domain.Extra{
			{ID: "e1", Name: "Extra Cheese", Price: 20, IsAvailable: true},
		},
		Customizations: []domain.Customization{
			{
				ID:       "c1",
				Name:     "Size",
				Required: true,
				Type:     domain.CustomizationSingle,
				Options: []domain.Option{
					{ID: "o1", Name: "Regular", IsAvailable: true},
					{ID: "o2", Name: "Large", Price: 30, IsAvailable: true},
				},
			},
		},
	}
	require.NoError(t, repo.UpsertMenuItem(context.Background(), item))
	return item
}

func TestMongoRepository_ItemAvailabilityRoundTrip(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	item := seedItem(t, repo)

	require.NoError(t, repo.UpdateItemAvailability(ctx, item.ID, false))

	items, err := repo.GetMenuItems(ctx, "7")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsAvailable)
	assert.True(t, items[0].Extras[0].IsAvailable, "embedded docs untouched")
}

func TestMongoRepository_NestedUpdates(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	item := seedItem(t, repo)

	require.NoError(t, repo.UpdateExtraAvailability(ctx, item.ID, "e1", false))
	require.NoError(t, repo.UpdateOptionAvailability(ctx, item.ID, "c1", "o2", false))

	items, err := repo.GetMenuItems(ctx, "7")
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.True(t, got.IsAvailable, "parent item untouched")
	assert.False(t, got.Extras[0].IsAvailable)
	assert.True(t, got.Customizations[0].Options[0].IsAvailable)
	assert.False(t, got.Customizations[0].Options[1].IsAvailable)
}

func TestMongoRepository_NotFoundErrors(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	item := seedItem(t, repo)

	assert.ErrorIs(t, repo.UpdateItemAvailability(ctx, "missing", false), ErrItemNotFound)
	assert.ErrorIs(t, repo.UpdateExtraAvailability(ctx, item.ID, "missing", false), ErrExtraNotFound)
	assert.ErrorIs(t, repo.UpdateExtraAvailability(ctx, "missing", "e1", false), ErrItemNotFound)
	assert.ErrorIs(t, repo.UpdateOptionAvailability(ctx, item.ID, "c1", "missing", false), ErrOptionNotFound)

	_, err := repo.GetStall(ctx, "missing")
	assert.ErrorIs(t, err, ErrStallNotFound)
}

func TestMongoRepository_StallVisibility(t *testing.T) {
	repo := setupTestDB(t).(*mongoRepository)
	ctx := context.Background()

	_, err := repo.stalls.InsertOne(ctx, &domain.Stall{
		ID:       "7",
		Name:     "Momo Magic",
		IsActive: true,
	})
	require.NoError(t, err)

	stall, err := repo.SetStallActive(ctx, "7", false)
	require.NoError(t, err)
	assert.False(t, stall.IsActive)
	assert.Equal(t, "Momo Magic", stall.Name)

	active, err := repo.ListActiveStalls(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
