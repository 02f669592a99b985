package repository

import (
	"context"
	"testing"

	"partnertrack/models"
	"partnertrack/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingEventRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTrackingEventRepository(testDB.DB)
	ctx := context.Background()

	t.Run("click event without player", func(t *testing.T) {
		event := testutil.CreateTestTrackingEvent(models.EventTypeClick, models.OwnerTypeAffiliate, uuid.New())
		err := repo.Create(ctx, event)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
	})

	t.Run("deposit event with amount", func(t *testing.T) {
		playerRepo := NewPlayerRepository(testDB.DB)
		player := testutil.CreateTestPlayer("depositor-1")
		require.NoError(t, playerRepo.Create(ctx, player))

		amount := decimal.NewFromInt(100)
		event := testutil.CreateTestTrackingEvent(models.EventTypeDeposit, models.OwnerTypeAffiliate, uuid.New())
		event.PlayerID = &player.ID
		event.Amount = &amount

		require.NoError(t, repo.Create(ctx, event))
	})
}

func TestTrackingEventRepository_HasFTD(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTrackingEventRepository(testDB.DB)
	playerRepo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	player := testutil.CreateTestPlayer("ftd-player")
	require.NoError(t, playerRepo.Create(ctx, player))

	has, err := repo.HasFTD(ctx, player.ID)
	require.NoError(t, err)
	assert.False(t, has)

	// A plain deposit does not count as an ftd
	deposit := testutil.CreateTestTrackingEvent(models.EventTypeDeposit, models.OwnerTypeAffiliate, uuid.New())
	deposit.PlayerID = &player.ID
	require.NoError(t, repo.Create(ctx, deposit))

	has, err = repo.HasFTD(ctx, player.ID)
	require.NoError(t, err)
	assert.False(t, has)

	ftd := testutil.CreateTestTrackingEvent(models.EventTypeFTD, models.OwnerTypeAffiliate, uuid.New())
	ftd.PlayerID = &player.ID
	require.NoError(t, repo.Create(ctx, ftd))

	has, err = repo.HasFTD(ctx, player.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestTrackingEventRepository_ListByOwner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTrackingEventRepository(testDB.DB)
	ctx := context.Background()

	ownerID := uuid.New()
	for _, eventType := range []models.EventType{models.EventTypeClick, models.EventTypeClick, models.EventTypeRegistration} {
		event := testutil.CreateTestTrackingEvent(eventType, models.OwnerTypeAgent, ownerID)
		require.NoError(t, repo.Create(ctx, event))
	}

	all, err := repo.ListByOwner(ctx, models.OwnerTypeAgent, ownerID, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	clicks := models.EventTypeClick
	filtered, err := repo.ListByOwner(ctx, models.OwnerTypeAgent, ownerID, &clicks, 10)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}
