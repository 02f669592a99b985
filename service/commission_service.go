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

// commissionService implements the CommissionService interface
type commissionService struct {
	uowFactory UnitOfWorkFactory
	calc       CommissionConfig
}

// NewCommissionService creates a new commission service
func NewCommissionService(uowFactory UnitOfWorkFactory, calc CommissionConfig) CommissionService {
	return &commissionService{
		uowFactory: uowFactory,
		calc:       calc,
	}
}

// ProcessAgentLossCommission settles the agent's revenue share of a player loss
func (s *commissionService) ProcessAgentLossCommission(ctx context.Context, agentID, playerID uuid.UUID, lossAmount decimal.Decimal, at time.Time) error {
	if !lossAmount.IsPositive() {
		return fmt.Errorf("%w: loss amount must be positive, got %s", ErrValidation, lossAmount)
	}

	commission := s.calc.AgentCommission(lossAmount)
	if !commission.IsPositive() {
		// Zero commission is a valid no-op, not an error
		return nil
	}

	log.WithFields(log.Fields{
		"agentId":    agentID,
		"playerId":   playerID,
		"netLosses":  lossAmount,
		"commission": commission,
	}).Info("Calculated agent commission")

	return s.settle(ctx, models.OwnerTypeAgent, agentID, commission, at)
}

// ProcessAffiliateCommission settles an affiliate ftd/deposit event under the
// configured model
func (s *commissionService) ProcessAffiliateCommission(ctx context.Context, affiliateID uuid.UUID, eventType models.EventType, amount decimal.Decimal, at time.Time) error {
	if eventType != models.EventTypeFTD && eventType != models.EventTypeDeposit {
		return fmt.Errorf("%w: event type %q does not earn affiliate commission", ErrValidation, eventType)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrValidation, amount)
	}

	commission := s.calc.AffiliateCommission(eventType, amount)
	if !commission.IsPositive() {
		// The event type is excluded by the active model; nothing to settle
		return nil
	}

	log.WithFields(log.Fields{
		"affiliateId": affiliateID,
		"eventType":   eventType,
		"amount":      amount,
		"commission":  commission,
	}).Info("Calculated affiliate commission")

	return s.settle(ctx, models.OwnerTypeAffiliate, affiliateID, commission, at)
}

// settle upserts the daily ledger row for the owner+period and credits the
// incremental commission to the owner's balances, all in one transaction.
//
// The owner row is locked first: it is the single lock domain shared with the
// withdrawal flow, so concurrent settlements and withdrawals for the same
// owner serialize here. The ledger row lock then guards the gross
// read-modify-write against a concurrent settlement for the same period.
func (s *commissionService) settle(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, commission decimal.Decimal, at time.Time) error {
	period := models.PeriodDaily
	periodKey := PeriodKey(at, period)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	owner, err := uow.OwnerRepository().GetForUpdate(ctx, ownerType, ownerID)
	if err != nil {
		return fmt.Errorf("failed to lock owner: %w", err)
	}
	if owner == nil {
		return fmt.Errorf("%w: %s %s", ErrOwnerNotFound, ownerType, ownerID)
	}

	existing, err := uow.LedgerRepository().GetForUpdate(ctx, ownerType, ownerID, period, periodKey)
	if err != nil {
		return fmt.Errorf("failed to get ledger row: %w", err)
	}

	// Gross accumulates commission amounts across the period; adjustments
	// survive re-settlement untouched.
	newGross := commission
	adjustments := decimal.Zero
	if existing != nil {
		newGross = existing.Gross.Add(commission)
		adjustments = existing.Adjustments
	}

	ledger := &models.CommissionLedger{
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Period:      period,
		PeriodKey:   periodKey,
		Currency:    "USD",
		Gross:       newGross,
		Adjustments: adjustments,
		Commission:  newGross.Add(adjustments),
	}

	if err := uow.LedgerRepository().Upsert(ctx, ledger); err != nil {
		return fmt.Errorf("failed to upsert ledger row: %w", err)
	}

	// Only the delta just computed is credited; prior increments were already
	// applied on earlier settlements of this period.
	if err := uow.OwnerRepository().CreditCommission(ctx, ownerType, ownerID, commission); err != nil {
		return fmt.Errorf("failed to credit commission: %w", err)
	}

	uow.EventBus().Publish(events.CommissionSettledEvent{
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		Period:     period,
		PeriodKey:  periodKey,
		Commission: commission,
		Gross:      newGross,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"ownerType":  ownerType,
		"ownerId":    ownerID,
		"period":     period,
		"periodKey":  periodKey,
		"gross":      newGross,
		"commission": commission,
	}).Info("Settled commission period")

	return nil
}
