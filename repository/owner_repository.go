package repository

import (
	"context"
	"fmt"

	"partnertrack/database"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OwnerRepository implements the OwnerRepository interface over the agents
// and affiliates tables, dispatching on owner type
type OwnerRepository struct {
	q queryable
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *database.DB) *OwnerRepository {
	return &OwnerRepository{q: db.Pool}
}

// newOwnerRepositoryWithTx creates a new owner repository with a transaction
func newOwnerRepositoryWithTx(tx queryable) *OwnerRepository {
	return &OwnerRepository{q: tx}
}

// ownerTable maps an owner type to its table. Table names are interpolated
// into SQL, so only whitelisted values ever pass through.
func ownerTable(ownerType models.OwnerType) (string, error) {
	switch ownerType {
	case models.OwnerTypeAgent:
		return "agents", nil
	case models.OwnerTypeAffiliate:
		return "affiliates", nil
	}
	return "", fmt.Errorf("unknown owner type %q", ownerType)
}

// GetByID retrieves an owner by type and ID
func (r *OwnerRepository) GetByID(ctx context.Context, ownerType models.OwnerType, id uuid.UUID) (*models.Owner, error) {
	return r.get(ctx, ownerType, id, "")
}

// GetForUpdate retrieves an owner and locks its row for the duration of the
// enclosing transaction
func (r *OwnerRepository) GetForUpdate(ctx context.Context, ownerType models.OwnerType, id uuid.UUID) (*models.Owner, error) {
	return r.get(ctx, ownerType, id, " FOR UPDATE")
}

func (r *OwnerRepository) get(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, lock string) (*models.Owner, error) {
	table, err := ownerTable(ownerType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, wallet_balance, withdrawable_balance, created_at, updated_at
		FROM %s
		WHERE id = $1%s
	`, table, lock)

	var owner models.Owner
	err = r.q.QueryRow(ctx, query, id).Scan(
		&owner.ID,
		&owner.UserID,
		&owner.WalletBalance,
		&owner.WithdrawableBalance,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", ownerType, id, err)
	}

	owner.Type = ownerType
	return &owner, nil
}

// Create creates a new owner row with zero balances
func (r *OwnerRepository) Create(ctx context.Context, ownerType models.OwnerType, userID uuid.UUID) (*models.Owner, error) {
	table, err := ownerTable(ownerType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id)
		VALUES ($1)
		RETURNING id, user_id, wallet_balance, withdrawable_balance, created_at, updated_at
	`, table)

	var owner models.Owner
	err = r.q.QueryRow(ctx, query, userID).Scan(
		&owner.ID,
		&owner.UserID,
		&owner.WalletBalance,
		&owner.WithdrawableBalance,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s for user %s: %w", ownerType, userID, err)
	}

	owner.Type = ownerType
	return &owner, nil
}

// CreditCommission adds amount to both wallet and withdrawable balances
func (r *OwnerRepository) CreditCommission(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	table, err := ownerTable(ownerType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET wallet_balance = wallet_balance + $1,
		    withdrawable_balance = withdrawable_balance + $1,
		    updated_at = NOW()
		WHERE id = $2
	`, table)

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to credit commission for %s %s: %w", ownerType, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s not found", ownerType, id)
	}

	return nil
}

// DeductWithdrawable subtracts amount from the withdrawable balance, failing
// if insufficient funds remain
func (r *OwnerRepository) DeductWithdrawable(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	table, err := ownerTable(ownerType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET withdrawable_balance = withdrawable_balance - $1, updated_at = NOW()
		WHERE id = $2 AND withdrawable_balance >= $1
	`, table)

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to deduct withdrawable balance for %s %s: %w", ownerType, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s not found or insufficient withdrawable balance", ownerType, id)
	}

	return nil
}

// ReleaseWithdrawable returns a previously locked amount to the withdrawable balance
func (r *OwnerRepository) ReleaseWithdrawable(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	table, err := ownerTable(ownerType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET withdrawable_balance = withdrawable_balance + $1, updated_at = NOW()
		WHERE id = $2
	`, table)

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to release withdrawable balance for %s %s: %w", ownerType, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s not found", ownerType, id)
	}

	return nil
}

// DeductWallet subtracts amount from the wallet balance (payout)
func (r *OwnerRepository) DeductWallet(ctx context.Context, ownerType models.OwnerType, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	table, err := ownerTable(ownerType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET wallet_balance = wallet_balance - $1, updated_at = NOW()
		WHERE id = $2
	`, table)

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to deduct wallet balance for %s %s: %w", ownerType, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s not found", ownerType, id)
	}

	return nil
}
