package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTrackingMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockTrackingEventRepository, *MockCampaignRepository, *MockPlayerRepository, *MockCommissionService, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTrackingRepo := new(MockTrackingEventRepository)
	mockCampaignRepo := new(MockCampaignRepository)
	mockPlayerRepo := new(MockPlayerRepository)
	mockCommissions := new(MockCommissionService)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(nil, nil, nil, mockTrackingRepo, mockCampaignRepo, mockPlayerRepo, mockPublisher)
	return mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, mockPlayerRepo, mockCommissions, mockPublisher
}

func activeAffiliateCampaign(code string) *models.Campaign {
	return &models.Campaign{
		ID:        uuid.New(),
		Code:      code,
		Name:      "Test campaign",
		OwnerType: models.OwnerTypeAffiliate,
		OwnerID:   uuid.New(),
		Status:    models.CampaignStatusActive,
	}
}

func TestTrackingService_RecordClick(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, _, mockCommissions, mockPublisher := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	campaign := activeAffiliateCampaign("SUMMER")

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockCampaignRepo.On("GetByCode", ctx, "SUMMER").Return(campaign, nil)
	mockTrackingRepo.On("Create", ctx, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Type == models.EventTypeClick &&
			e.OwnerType == campaign.OwnerType &&
			e.OwnerID == campaign.OwnerID &&
			e.CampaignID != nil && *e.CampaignID == campaign.ID &&
			e.IP == "203.0.113.5"
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	err := service.RecordClick(ctx, "SUMMER", "203.0.113.5", "agent/1.0")

	assert.NoError(t, err)
	mockTrackingRepo.AssertExpectations(t)
}

func TestTrackingService_RecordClick_CampaignGate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, _, mockCommissions, _ := newTrackingMocks()
		service := NewTrackingService(mockFactory, mockCommissions)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockCampaignRepo.On("GetByCode", ctx, "NOPE").Return(nil, nil)

		err := service.RecordClick(ctx, "NOPE", "", "")

		assert.True(t, errors.Is(err, ErrCampaignNotFound))
		mockTrackingRepo.AssertNotCalled(t, "Create")
	})

	t.Run("paused campaign", func(t *testing.T) {
		mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, _, mockCommissions, _ := newTrackingMocks()
		service := NewTrackingService(mockFactory, mockCommissions)

		paused := activeAffiliateCampaign("PAUSED")
		paused.Status = models.CampaignStatusPaused

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockCampaignRepo.On("GetByCode", ctx, "PAUSED").Return(paused, nil)

		err := service.RecordClick(ctx, "PAUSED", "", "")

		assert.True(t, errors.Is(err, ErrCampaignNotFound))
		mockTrackingRepo.AssertNotCalled(t, "Create")
	})

	t.Run("empty code", func(t *testing.T) {
		mockUoW, mockFactory, _, mockCampaignRepo, _, mockCommissions, _ := newTrackingMocks()
		service := NewTrackingService(mockFactory, mockCommissions)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		err := service.RecordClick(ctx, "", "", "")

		assert.True(t, errors.Is(err, ErrValidation))
		mockCampaignRepo.AssertNotCalled(t, "GetByCode")
	})
}

func TestTrackingService_RegisterPlayer_AgentCampaignSetsAgent(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, mockPlayerRepo, mockCommissions, mockPublisher := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	agentID := uuid.New()
	campaign := &models.Campaign{
		ID:        uuid.New(),
		Code:      "AGENTCODE",
		OwnerType: models.OwnerTypeAgent,
		OwnerID:   agentID,
		Status:    models.CampaignStatusActive,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockCampaignRepo.On("GetByCode", ctx, "AGENTCODE").Return(campaign, nil)
	mockPlayerRepo.On("GetByUsername", ctx, "newplayer").Return(nil, nil)
	mockPlayerRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Player) bool {
		return p.Username == "newplayer" &&
			p.Status == models.PlayerStatusActive &&
			p.AgentID != nil && *p.AgentID == agentID
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Player).ID = uuid.New()
	})
	mockTrackingRepo.On("Create", ctx, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Type == models.EventTypeRegistration && e.PlayerID != nil
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	player, err := service.RegisterPlayer(ctx, "AGENTCODE", "newplayer", "", "")

	assert.NoError(t, err)
	assert.NotNil(t, player)
	assert.NotNil(t, player.AgentID)
	mockPlayerRepo.AssertExpectations(t)
}

func TestTrackingService_RegisterPlayer_DuplicateUsername(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockCampaignRepo, mockPlayerRepo, mockCommissions, _ := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	campaign := activeAffiliateCampaign("AFF")

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockCampaignRepo.On("GetByCode", ctx, "AFF").Return(campaign, nil)
	mockPlayerRepo.On("GetByUsername", ctx, "taken").Return(&models.Player{ID: uuid.New(), Username: "taken"}, nil)

	_, err := service.RegisterPlayer(ctx, "AFF", "taken", "", "")

	assert.True(t, errors.Is(err, ErrValidation))
	mockPlayerRepo.AssertNotCalled(t, "Create")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestTrackingService_RecordDeposit_FirstDepositSpawnsFTD(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, mockPlayerRepo, mockCommissions, mockPublisher := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	campaign := activeAffiliateCampaign("AFF1")
	playerID := uuid.New()
	amount := decimal.NewFromInt(100)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockCampaignRepo.On("GetByCode", ctx, "AFF1").Return(campaign, nil)
	mockTrackingRepo.On("HasFTD", ctx, playerID).Return(false, nil)
	mockPlayerRepo.On("AddDeposit", ctx, playerID, decimalEqual(100)).Return(nil)

	mockTrackingRepo.On("Create", ctx, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Type == models.EventTypeDeposit && e.Amount != nil && e.Amount.Equal(amount)
	})).Return(nil)
	mockTrackingRepo.On("Create", ctx, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Type == models.EventTypeFTD && e.Amount != nil && e.Amount.Equal(amount)
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	// Settlement runs for both the ftd and the deposit; the calculator decides
	// which one actually pays under the active model
	mockCommissions.On("ProcessAffiliateCommission", ctx, campaign.OwnerID, models.EventTypeFTD, decimalEqual(100), mock.AnythingOfType("time.Time")).Return(nil)
	mockCommissions.On("ProcessAffiliateCommission", ctx, campaign.OwnerID, models.EventTypeDeposit, decimalEqual(100), mock.AnythingOfType("time.Time")).Return(nil)

	isFTD, err := service.RecordDeposit(ctx, "AFF1", &playerID, amount, "USD", "", "")

	assert.NoError(t, err)
	assert.True(t, isFTD)
	mockTrackingRepo.AssertExpectations(t)
	mockCommissions.AssertExpectations(t)
}

func TestTrackingService_RecordDeposit_SecondDepositIsNotFTD(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, mockPlayerRepo, mockCommissions, mockPublisher := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	campaign := activeAffiliateCampaign("AFF2")
	playerID := uuid.New()
	amount := decimal.NewFromInt(50)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockCampaignRepo.On("GetByCode", ctx, "AFF2").Return(campaign, nil)
	mockTrackingRepo.On("HasFTD", ctx, playerID).Return(true, nil)
	mockPlayerRepo.On("AddDeposit", ctx, playerID, decimalEqual(50)).Return(nil)

	mockTrackingRepo.On("Create", ctx, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Type == models.EventTypeDeposit
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	mockCommissions.On("ProcessAffiliateCommission", ctx, campaign.OwnerID, models.EventTypeDeposit, decimalEqual(50), mock.AnythingOfType("time.Time")).Return(nil)

	isFTD, err := service.RecordDeposit(ctx, "AFF2", &playerID, amount, "USD", "", "")

	assert.NoError(t, err)
	assert.False(t, isFTD)
	// No ftd settlement for a repeat deposit
	mockCommissions.AssertNumberOfCalls(t, "ProcessAffiliateCommission", 1)
}

func TestTrackingService_RecordDeposit_AgentCampaignSkipsAffiliateSettlement(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, mockCampaignRepo, mockPlayerRepo, mockCommissions, mockPublisher := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	campaign := &models.Campaign{
		ID:        uuid.New(),
		Code:      "AGENT1",
		OwnerType: models.OwnerTypeAgent,
		OwnerID:   uuid.New(),
		Status:    models.CampaignStatusActive,
	}
	playerID := uuid.New()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockCampaignRepo.On("GetByCode", ctx, "AGENT1").Return(campaign, nil)
	mockTrackingRepo.On("HasFTD", ctx, playerID).Return(false, nil)
	mockPlayerRepo.On("AddDeposit", ctx, playerID, decimalEqual(80)).Return(nil)
	mockTrackingRepo.On("Create", ctx, mock.Anything).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	isFTD, err := service.RecordDeposit(ctx, "AGENT1", &playerID, decimal.NewFromInt(80), "USD", "", "")

	assert.NoError(t, err)
	assert.True(t, isFTD)
	// Agents earn from losses, not deposits
	mockCommissions.AssertNotCalled(t, "ProcessAffiliateCommission")
}

func TestTrackingService_RecordLoss_AgentPlayer(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, _, mockPlayerRepo, mockCommissions, mockPublisher := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	agentID := uuid.New()
	playerID := uuid.New()
	at := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)
	player := &models.Player{ID: playerID, Username: "loser", AgentID: &agentID}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByID", ctx, playerID).Return(player, nil)
	mockPlayerRepo.On("AddLoss", ctx, playerID, decimalEqual(200)).Return(nil)
	mockTrackingRepo.On("Create", ctx, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Type == models.EventTypeLoss &&
			e.OwnerType == models.OwnerTypeAgent &&
			e.OwnerID == agentID
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	mockCommissions.On("ProcessAgentLossCommission", ctx, agentID, playerID, decimalEqual(200), at).Return(nil)

	err := service.RecordLoss(ctx, playerID, decimal.NewFromInt(200), at)

	assert.NoError(t, err)
	mockCommissions.AssertExpectations(t)
}

func TestTrackingService_RecordLoss_AffiliatePlayerHasNoAgent(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockTrackingRepo, _, mockPlayerRepo, mockCommissions, _ := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	playerID := uuid.New()
	player := &models.Player{ID: playerID, Username: "affplayer"}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByID", ctx, playerID).Return(player, nil)
	mockPlayerRepo.On("AddLoss", ctx, playerID, decimalEqual(100)).Return(nil)

	err := service.RecordLoss(ctx, playerID, decimal.NewFromInt(100), time.Now())

	assert.NoError(t, err)
	// The loss still counts against the player, but no attribution happens
	mockTrackingRepo.AssertNotCalled(t, "Create")
	mockCommissions.AssertNotCalled(t, "ProcessAgentLossCommission")
}

func TestTrackingService_RecordLoss_UnknownPlayer(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, mockPlayerRepo, mockCommissions, _ := newTrackingMocks()
	service := NewTrackingService(mockFactory, mockCommissions)

	playerID := uuid.New()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockPlayerRepo.On("GetByID", ctx, playerID).Return(nil, nil)

	err := service.RecordLoss(ctx, playerID, decimal.NewFromInt(10), time.Now())

	assert.True(t, errors.Is(err, ErrPlayerNotFound))
	mockUoW.AssertNotCalled(t, "Commit")
}
