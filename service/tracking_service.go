package service

import (
	"context"
	"fmt"
	"time"

	"partnertrack/events"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// trackingService implements the TrackingService interface.
//
// Event recording and commission settlement run in separate transactions: the
// attribution fact is durable even if settlement fails, and settlement is safe
// to retry because the ledger upsert is idempotent per owner+period.
type trackingService struct {
	uowFactory  UnitOfWorkFactory
	commissions CommissionService
}

// NewTrackingService creates a new tracking service
func NewTrackingService(uowFactory UnitOfWorkFactory, commissions CommissionService) TrackingService {
	return &trackingService{
		uowFactory:  uowFactory,
		commissions: commissions,
	}
}

// RecordClick records a click on a campaign link
func (s *trackingService) RecordClick(ctx context.Context, campaignCode, ip, ua string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	campaign, err := s.activeCampaign(ctx, uow, campaignCode)
	if err != nil {
		return err
	}

	event := &models.TrackingEvent{
		Type:       models.EventTypeClick,
		CampaignID: &campaign.ID,
		OwnerType:  campaign.OwnerType,
		OwnerID:    campaign.OwnerID,
		Currency:   "USD",
		IP:         ip,
		UA:         ua,
	}
	if err := uow.TrackingEventRepository().Create(ctx, event); err != nil {
		return fmt.Errorf("failed to record click event: %w", err)
	}

	s.publishRecorded(uow, event)

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RegisterPlayer registers a player referred through a campaign
func (s *trackingService) RegisterPlayer(ctx context.Context, campaignCode, username, ip, ua string) (*models.Player, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	campaign, err := s.activeCampaign(ctx, uow, campaignCode)
	if err != nil {
		return nil, err
	}

	existing, err := uow.PlayerRepository().GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q already exists", ErrValidation, username)
	}

	player := &models.Player{
		Username: username,
		Status:   models.PlayerStatusActive,
	}
	// Players referred through an agent campaign belong to that agent
	if campaign.OwnerType == models.OwnerTypeAgent {
		agentID := campaign.OwnerID
		player.AgentID = &agentID
	}

	if err := uow.PlayerRepository().Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	event := &models.TrackingEvent{
		Type:       models.EventTypeRegistration,
		PlayerID:   &player.ID,
		CampaignID: &campaign.ID,
		OwnerType:  campaign.OwnerType,
		OwnerID:    campaign.OwnerID,
		Currency:   "USD",
		IP:         ip,
		UA:         ua,
	}
	if err := uow.TrackingEventRepository().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record registration event: %w", err)
	}

	s.publishRecorded(uow, event)
	uow.EventBus().Publish(events.PlayerRegisteredEvent{
		PlayerID:   player.ID,
		Username:   username,
		CampaignID: campaign.ID,
		OwnerType:  campaign.OwnerType,
		OwnerID:    campaign.OwnerID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"playerId":     player.ID,
		"campaignCode": campaignCode,
	}).Info("Player registered")

	return player, nil
}

// RecordDeposit records a deposit, spawning an ftd event on the player's first
// deposit, and settles any affiliate commission under the configured model
func (s *trackingService) RecordDeposit(ctx context.Context, campaignCode string, playerID *uuid.UUID, amount decimal.Decimal, currency, ip, ua string) (bool, error) {
	if !amount.IsPositive() {
		return false, fmt.Errorf("%w: deposit amount must be positive, got %s", ErrValidation, amount)
	}
	if currency == "" {
		currency = "USD"
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	campaign, err := s.activeCampaign(ctx, uow, campaignCode)
	if err != nil {
		return false, err
	}

	// First-time deposit: the player has no prior ftd event
	isFTD := false
	if playerID != nil {
		hasFTD, err := uow.TrackingEventRepository().HasFTD(ctx, *playerID)
		if err != nil {
			return false, fmt.Errorf("failed to check for prior ftd: %w", err)
		}
		isFTD = !hasFTD

		if err := uow.PlayerRepository().AddDeposit(ctx, *playerID, amount); err != nil {
			return false, fmt.Errorf("failed to update player deposits: %w", err)
		}
	}

	deposit := &models.TrackingEvent{
		Type:       models.EventTypeDeposit,
		PlayerID:   playerID,
		CampaignID: &campaign.ID,
		OwnerType:  campaign.OwnerType,
		OwnerID:    campaign.OwnerID,
		Amount:     &amount,
		Currency:   currency,
		IP:         ip,
		UA:         ua,
	}
	if err := uow.TrackingEventRepository().Create(ctx, deposit); err != nil {
		return false, fmt.Errorf("failed to record deposit event: %w", err)
	}
	s.publishRecorded(uow, deposit)

	// One deposit spawns at most one ftd event, the first time the player deposits
	if isFTD && playerID != nil {
		ftd := &models.TrackingEvent{
			Type:       models.EventTypeFTD,
			PlayerID:   playerID,
			CampaignID: &campaign.ID,
			OwnerType:  campaign.OwnerType,
			OwnerID:    campaign.OwnerID,
			Amount:     &amount,
			Currency:   currency,
			IP:         ip,
			UA:         ua,
		}
		if err := uow.TrackingEventRepository().Create(ctx, ftd); err != nil {
			return false, fmt.Errorf("failed to record ftd event: %w", err)
		}
		s.publishRecorded(uow, ftd)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Settlement runs after the events are durable. The calculator gates the
	// model internally: under CPA only the ftd pays, under REVSHARE only the
	// deposit pays.
	if campaign.OwnerType == models.OwnerTypeAffiliate {
		now := time.Now()
		if isFTD && playerID != nil {
			if err := s.commissions.ProcessAffiliateCommission(ctx, campaign.OwnerID, models.EventTypeFTD, amount, now); err != nil {
				return isFTD, fmt.Errorf("failed to settle ftd commission: %w", err)
			}
		}
		if err := s.commissions.ProcessAffiliateCommission(ctx, campaign.OwnerID, models.EventTypeDeposit, amount, now); err != nil {
			return isFTD, fmt.Errorf("failed to settle deposit commission: %w", err)
		}
	}

	return isFTD, nil
}

// RecordLoss records a player loss and settles the agent's commission
func (s *trackingService) RecordLoss(ctx context.Context, playerID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: loss amount must be positive, got %s", ErrValidation, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	player, err := uow.PlayerRepository().GetByID(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	if err := uow.PlayerRepository().AddLoss(ctx, playerID, amount); err != nil {
		return fmt.Errorf("failed to update player losses: %w", err)
	}

	// Losses only earn commission for agent-owned players; affiliate-referred
	// players have no agent to attribute the loss to.
	if player.AgentID != nil {
		event := &models.TrackingEvent{
			Type:      models.EventTypeLoss,
			PlayerID:  &playerID,
			OwnerType: models.OwnerTypeAgent,
			OwnerID:   *player.AgentID,
			Amount:    &amount,
			Currency:  "USD",
		}
		if err := uow.TrackingEventRepository().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to record loss event: %w", err)
		}
		s.publishRecorded(uow, event)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if player.AgentID != nil {
		if err := s.commissions.ProcessAgentLossCommission(ctx, *player.AgentID, playerID, amount, at); err != nil {
			return fmt.Errorf("failed to settle agent commission: %w", err)
		}
	}

	return nil
}

// activeCampaign resolves a campaign code, requiring an active campaign
func (s *trackingService) activeCampaign(ctx context.Context, uow UnitOfWork, code string) (*models.Campaign, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: campaign code is required", ErrValidation)
	}

	campaign, err := uow.CampaignRepository().GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	if campaign == nil || !campaign.IsActive() {
		return nil, fmt.Errorf("%w: %q", ErrCampaignNotFound, code)
	}

	return campaign, nil
}

func (s *trackingService) publishRecorded(uow UnitOfWork, event *models.TrackingEvent) {
	uow.EventBus().Publish(events.TrackingEventRecordedEvent{
		EventID:   event.ID,
		EventType: event.Type,
		OwnerType: event.OwnerType,
		OwnerID:   event.OwnerID,
		PlayerID:  event.PlayerID,
	})
}
