package service

import (
	"context"
	"fmt"

	"partnertrack/events"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// walletService implements the WalletService interface
type walletService struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory) WalletService {
	return &walletService{
		uowFactory: uowFactory,
	}
}

// GetBalance returns the owner's wallet and withdrawable balances
func (s *walletService) GetBalance(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID) (*models.Owner, error) {
	if !ownerType.Valid() {
		return nil, fmt.Errorf("%w: invalid owner type %q", ErrValidation, ownerType)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	owner, err := uow.OwnerRepository().GetByID(ctx, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrOwnerNotFound, ownerType, ownerID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return owner, nil
}

// CreateWithdrawal locks funds and creates a pending withdrawal request.
// The balance check, the insert and the withdrawable decrement all happen in
// one transaction: funds are locked at request time, not at approval time.
func (s *walletService) CreateWithdrawal(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, amount decimal.Decimal, method, currency string) (*models.Withdrawal, error) {
	if !ownerType.Valid() {
		return nil, fmt.Errorf("%w: invalid owner type %q", ErrValidation, ownerType)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive, got %s", ErrValidation, amount)
	}
	if method == "" {
		return nil, fmt.Errorf("%w: withdrawal method is required", ErrValidation)
	}
	if currency == "" {
		currency = "USD"
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Lock the owner row: serializes against concurrent settlements and other
	// withdrawal requests for the same owner.
	owner, err := uow.OwnerRepository().GetForUpdate(ctx, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrOwnerNotFound, ownerType, ownerID)
	}

	if owner.WithdrawableBalance.LessThan(amount) {
		return nil, fmt.Errorf("%w: have %s withdrawable, need %s", ErrInsufficientBalance, owner.WithdrawableBalance, amount)
	}

	withdrawal := &models.Withdrawal{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Amount:    amount,
		Currency:  currency,
		Method:    method,
		Status:    models.WithdrawalStatusPending,
	}

	if err := uow.WithdrawalRepository().Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	if err := uow.OwnerRepository().DeductWithdrawable(ctx, ownerType, ownerID, amount); err != nil {
		return nil, fmt.Errorf("failed to lock withdrawal amount: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalStatusChangedEvent{
		WithdrawalID: withdrawal.ID,
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		OldStatus:    "",
		NewStatus:    models.WithdrawalStatusPending,
		Amount:       amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"ownerType":    ownerType,
		"ownerId":      ownerID,
		"amount":       amount,
		"withdrawalId": withdrawal.ID,
	}).Info("Withdrawal created")

	return withdrawal, nil
}

// UpdateWithdrawalStatus transitions a withdrawal to approved, rejected or paid.
//
// Both the withdrawal row and the owner row are locked for the duration of the
// transaction, so two concurrent transitions of the same withdrawal cannot
// both pass the status guard and double-apply a balance change.
func (s *walletService) UpdateWithdrawalStatus(ctx context.Context, withdrawalID uuid.UUID, status models.WithdrawalStatus, reference *string) (*models.Withdrawal, error) {
	if status != models.WithdrawalStatusApproved && status != models.WithdrawalStatusRejected && status != models.WithdrawalStatusPaid {
		return nil, fmt.Errorf("%w: invalid target status %q", ErrValidation, status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	withdrawal, err := uow.WithdrawalRepository().GetForUpdate(ctx, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock withdrawal: %w", err)
	}
	if withdrawal == nil {
		return nil, fmt.Errorf("%w: %s", ErrWithdrawalNotFound, withdrawalID)
	}

	owner, err := uow.OwnerRepository().GetForUpdate(ctx, withdrawal.OwnerType, withdrawal.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrOwnerNotFound, withdrawal.OwnerType, withdrawal.OwnerID)
	}

	switch status {
	case models.WithdrawalStatusRejected:
		// Rejecting releases the funds lock, but only when the withdrawal was
		// still pending; anything else already settled its balance effect.
		if withdrawal.ReleasesLockOnReject() {
			if err := uow.OwnerRepository().ReleaseWithdrawable(ctx, withdrawal.OwnerType, withdrawal.OwnerID, withdrawal.Amount); err != nil {
				return nil, fmt.Errorf("failed to release withdrawal amount: %w", err)
			}
		}
	case models.WithdrawalStatusPaid:
		// Paying debits the wallet; withdrawable was already reduced at creation.
		if withdrawal.DebitsWalletOnPay() {
			if err := uow.OwnerRepository().DeductWallet(ctx, withdrawal.OwnerType, withdrawal.OwnerID, withdrawal.Amount); err != nil {
				return nil, fmt.Errorf("failed to debit wallet: %w", err)
			}
		}
	case models.WithdrawalStatusApproved:
		// Status change only; the funds were locked at creation
	}

	updated, err := uow.WithdrawalRepository().UpdateStatus(ctx, withdrawalID, status, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to update withdrawal status: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalStatusChangedEvent{
		WithdrawalID: withdrawalID,
		OwnerType:    withdrawal.OwnerType,
		OwnerID:      withdrawal.OwnerID,
		OldStatus:    withdrawal.Status,
		NewStatus:    status,
		Amount:       withdrawal.Amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"withdrawalId": withdrawalID,
		"oldStatus":    withdrawal.Status,
		"newStatus":    status,
	}).Info("Withdrawal status updated")

	return updated, nil
}

// ListWithdrawals returns an owner's withdrawals, optionally filtered by status
func (s *walletService) ListWithdrawals(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, status *models.WithdrawalStatus, limit int) ([]*models.Withdrawal, error) {
	if !ownerType.Valid() {
		return nil, fmt.Errorf("%w: invalid owner type %q", ErrValidation, ownerType)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawals, err := uow.WithdrawalRepository().ListByOwner(ctx, ownerType, ownerID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return withdrawals, nil
}
