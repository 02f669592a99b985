package service

import (
	"context"
	"time"

	"partnertrack/events"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerRepository defines the interface for agent/affiliate wallet data access.
// All balance mutations are single atomic UPDATE statements; callers serialize
// concurrent mutations per owner by taking the row lock via GetForUpdate first.
type OwnerRepository interface {
	// GetByID retrieves an owner by type and ID, nil if not found
	GetByID(ctx context.Context, ownerType models.OwnerType, id uuid.UUID) (*models.Owner, error)

	// GetForUpdate retrieves an owner and locks its row for the duration of the
	// enclosing transaction, nil if not found
	GetForUpdate(ctx context.Context, ownerType models.OwnerType, id uuid.UUID) (*models.Owner, error)

	// Create creates a new owner row with zero balances
	Create(ctx context.Context, ownerType models.OwnerType, userID uuid.UUID) (*models.Owner, error)

	// CreditCommission adds amount to both wallet and withdrawable balances
	CreditCommission(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error

	// DeductWithdrawable subtracts amount from the withdrawable balance (funds lock)
	DeductWithdrawable(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error

	// ReleaseWithdrawable returns a previously locked amount to the withdrawable balance
	ReleaseWithdrawable(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error

	// DeductWallet subtracts amount from the wallet balance (payout)
	DeductWallet(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error
}

// LedgerRepository defines the interface for commission ledger data access
type LedgerRepository interface {
	// GetForUpdate retrieves the ledger row for the composite key and locks it,
	// nil if no row exists yet
	GetForUpdate(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, period models.Period, periodKey string) (*models.CommissionLedger, error)

	// Upsert inserts or replaces the ledger row identified by its composite key.
	// Gross, adjustments and commission are written as given.
	Upsert(ctx context.Context, ledger *models.CommissionLedger) error

	// ListByOwner returns ledger rows for an owner at a granularity, newest first
	ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, period models.Period, limit int) ([]*models.CommissionLedger, error)

	// SumDailyByKeys aggregates daily rows across the given period keys,
	// grouped per owner and currency
	SumDailyByKeys(ctx context.Context, periodKeys []string) ([]*models.LedgerTotals, error)
}

// WithdrawalRepository defines the interface for withdrawal data access
type WithdrawalRepository interface {
	// Create inserts a new withdrawal row
	Create(ctx context.Context, withdrawal *models.Withdrawal) error

	// GetForUpdate retrieves a withdrawal by ID and locks its row, nil if not found
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)

	// UpdateStatus sets the status and optional reference, returning the updated row
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.WithdrawalStatus, reference *string) (*models.Withdrawal, error)

	// ListByOwner returns withdrawals for an owner, optionally filtered by status, newest first
	ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, status *models.WithdrawalStatus, limit int) ([]*models.Withdrawal, error)
}

// TrackingEventRepository defines the interface for attribution event data access
type TrackingEventRepository interface {
	// Create appends a tracking event; events are immutable once created
	Create(ctx context.Context, event *models.TrackingEvent) error

	// HasFTD reports whether the player already has a first-time-deposit event
	HasFTD(ctx context.Context, playerID uuid.UUID) (bool, error)

	// ListByOwner returns events attributed to an owner, optionally filtered by type, newest first
	ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, eventType *models.EventType, limit int) ([]*models.TrackingEvent, error)
}

// CampaignRepository defines the interface for campaign data access
type CampaignRepository interface {
	// GetByCode retrieves a campaign by its tracking code, nil if not found
	GetByCode(ctx context.Context, code string) (*models.Campaign, error)

	// Create inserts a new campaign
	Create(ctx context.Context, campaign *models.Campaign) error
}

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByID retrieves a player by ID, nil if not found
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)

	// GetByUsername retrieves a player by username, nil if not found
	GetByUsername(ctx context.Context, username string) (*models.Player, error)

	// Create inserts a new player
	Create(ctx context.Context, player *models.Player) error

	// AddDeposit increments the player's lifetime deposit total
	AddDeposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// AddLoss increments the player's lifetime loss total
	AddLoss(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// CommissionService converts attribution events into settled ledger rows and
// balance credits
type CommissionService interface {
	// ProcessAgentLossCommission settles the agent's revenue share of a player loss
	ProcessAgentLossCommission(ctx context.Context, agentID, playerID uuid.UUID, lossAmount decimal.Decimal, at time.Time) error

	// ProcessAffiliateCommission settles an affiliate ftd/deposit event under the
	// configured model. Zero commission is a silent no-op.
	ProcessAffiliateCommission(ctx context.Context, affiliateID uuid.UUID, eventType models.EventType, amount decimal.Decimal, at time.Time) error
}

// WalletService manages owner balances and the withdrawal lifecycle
type WalletService interface {
	// GetBalance returns the owner's wallet and withdrawable balances
	GetBalance(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID) (*models.Owner, error)

	// CreateWithdrawal locks funds and creates a pending withdrawal request
	CreateWithdrawal(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, amount decimal.Decimal, method, currency string) (*models.Withdrawal, error)

	// UpdateWithdrawalStatus transitions a withdrawal to approved, rejected or paid
	UpdateWithdrawalStatus(ctx context.Context, withdrawalID uuid.UUID, status models.WithdrawalStatus, reference *string) (*models.Withdrawal, error)

	// ListWithdrawals returns an owner's withdrawals, optionally filtered by status
	ListWithdrawals(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, status *models.WithdrawalStatus, limit int) ([]*models.Withdrawal, error)
}

// TrackingService records attribution events and triggers commission settlement
type TrackingService interface {
	// RecordClick records a click on a campaign link
	RecordClick(ctx context.Context, campaignCode, ip, ua string) error

	// RegisterPlayer registers a player referred through a campaign
	RegisterPlayer(ctx context.Context, campaignCode, username, ip, ua string) (*models.Player, error)

	// RecordDeposit records a deposit, spawning an ftd event on the player's first
	// deposit, and settles any affiliate commission. Returns whether this was an FTD.
	RecordDeposit(ctx context.Context, campaignCode string, playerID *uuid.UUID, amount decimal.Decimal, currency, ip, ua string) (bool, error)

	// RecordLoss records a player loss and settles the agent's commission
	RecordLoss(ctx context.Context, playerID uuid.UUID, amount decimal.Decimal, at time.Time) error
}

// RollupService recomputes weekly/monthly ledger rows from daily rows.
// Rollups never touch balances; those were credited at daily settlement.
type RollupService interface {
	// RollupPeriod recomputes the weekly or monthly rows covering the given time
	RollupPeriod(ctx context.Context, period models.Period, at time.Time) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	OwnerRepository() OwnerRepository
	LedgerRepository() LedgerRepository
	WithdrawalRepository() WithdrawalRepository
	TrackingEventRepository() TrackingEventRepository
	CampaignRepository() CampaignRepository
	PlayerRepository() PlayerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
