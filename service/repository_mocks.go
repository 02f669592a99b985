package service

import (
	"context"
	"time"

	"partnertrack/events"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOwnerRepository is a mock implementation of OwnerRepository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) GetByID(ctx context.Context, ownerType models.OwnerType, id uuid.UUID) (*models.Owner, error) {
	args := m.Called(ctx, ownerType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

func (m *MockOwnerRepository) GetForUpdate(ctx context.Context, ownerType models.OwnerType, id uuid.UUID) (*models.Owner, error) {
	args := m.Called(ctx, ownerType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Create(ctx context.Context, ownerType models.OwnerType, userID uuid.UUID) (*models.Owner, error) {
	args := m.Called(ctx, ownerType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

func (m *MockOwnerRepository) CreditCommission(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, ownerType, id, amount)
	return args.Error(0)
}

func (m *MockOwnerRepository) DeductWithdrawable(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, ownerType, id, amount)
	return args.Error(0)
}

func (m *MockOwnerRepository) ReleaseWithdrawable(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, ownerType, id, amount)
	return args.Error(0)
}

func (m *MockOwnerRepository) DeductWallet(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, ownerType, id, amount)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetForUpdate(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, period models.Period, periodKey string) (*models.CommissionLedger, error) {
	args := m.Called(ctx, ownerType, ownerID, period, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommissionLedger), args.Error(1)
}

func (m *MockLedgerRepository) Upsert(ctx context.Context, ledger *models.CommissionLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, period models.Period, limit int) ([]*models.CommissionLedger, error) {
	args := m.Called(ctx, ownerType, ownerID, period, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommissionLedger), args.Error(1)
}

func (m *MockLedgerRepository) SumDailyByKeys(ctx context.Context, periodKeys []string) ([]*models.LedgerTotals, error) {
	args := m.Called(ctx, periodKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerTotals), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	args := m.Called(ctx, withdrawal)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.WithdrawalStatus, reference *string) (*models.Withdrawal, error) {
	args := m.Called(ctx, id, status, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, status *models.WithdrawalStatus, limit int) ([]*models.Withdrawal, error) {
	args := m.Called(ctx, ownerType, ownerID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Withdrawal), args.Error(1)
}

// MockTrackingEventRepository is a mock implementation of TrackingEventRepository
type MockTrackingEventRepository struct {
	mock.Mock
}

func (m *MockTrackingEventRepository) Create(ctx context.Context, event *models.TrackingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockTrackingEventRepository) HasFTD(ctx context.Context, playerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, playerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrackingEventRepository) ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, eventType *models.EventType, limit int) ([]*models.TrackingEvent, error) {
	args := m.Called(ctx, ownerType, ownerID, eventType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrackingEvent), args.Error(1)
}

// MockCampaignRepository is a mock implementation of CampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetByCode(ctx context.Context, code string) (*models.Campaign, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) AddDeposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockPlayerRepository) AddLoss(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockCommissionService is a mock implementation of CommissionService
type MockCommissionService struct {
	mock.Mock
}

func (m *MockCommissionService) ProcessAgentLossCommission(ctx context.Context, agentID, playerID uuid.UUID, lossAmount decimal.Decimal, at time.Time) error {
	args := m.Called(ctx, agentID, playerID, lossAmount, at)
	return args.Error(0)
}

func (m *MockCommissionService) ProcessAffiliateCommission(ctx context.Context, affiliateID uuid.UUID, eventType models.EventType, amount decimal.Decimal, at time.Time) error {
	args := m.Called(ctx, affiliateID, eventType, amount, at)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the instances provided via SetRepositories rather than going through
// testify so tests can hand the same mock repos to multiple expectations.
type MockUnitOfWork struct {
	mock.Mock

	ownerRepo      OwnerRepository
	ledgerRepo     LedgerRepository
	withdrawalRepo WithdrawalRepository
	trackingRepo   TrackingEventRepository
	campaignRepo   CampaignRepository
	playerRepo     PlayerRepository
	eventBus       EventPublisher
}

// SetRepositories wires mock repositories into the unit of work. Nil entries
// are fine for repositories the test never touches.
func (m *MockUnitOfWork) SetRepositories(
	ownerRepo OwnerRepository,
	ledgerRepo LedgerRepository,
	withdrawalRepo WithdrawalRepository,
	trackingRepo TrackingEventRepository,
	campaignRepo CampaignRepository,
	playerRepo PlayerRepository,
	eventBus EventPublisher,
) {
	m.ownerRepo = ownerRepo
	m.ledgerRepo = ledgerRepo
	m.withdrawalRepo = withdrawalRepo
	m.trackingRepo = trackingRepo
	m.campaignRepo = campaignRepo
	m.playerRepo = playerRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) OwnerRepository() OwnerRepository {
	return m.ownerRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository {
	return m.withdrawalRepo
}

func (m *MockUnitOfWork) TrackingEventRepository() TrackingEventRepository {
	return m.trackingRepo
}

func (m *MockUnitOfWork) CampaignRepository() CampaignRepository {
	return m.campaignRepo
}

func (m *MockUnitOfWork) PlayerRepository() PlayerRepository {
	return m.playerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
