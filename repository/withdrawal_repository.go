package repository

import (
	"context"
	"fmt"

	"partnertrack/database"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WithdrawalRepository implements the WithdrawalRepository interface using PostgreSQL
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

// Create inserts a new withdrawal row
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (owner_type, owner_id, amount, currency, method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		withdrawal.OwnerType,
		withdrawal.OwnerID,
		withdrawal.Amount,
		withdrawal.Currency,
		withdrawal.Method,
		withdrawal.Status,
	).Scan(&withdrawal.ID, &withdrawal.CreatedAt, &withdrawal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal for %s %s: %w", withdrawal.OwnerType, withdrawal.OwnerID, err)
	}

	return nil
}

// GetForUpdate retrieves a withdrawal by ID and locks its row
func (r *WithdrawalRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	query := `
		SELECT id, owner_type, owner_id, amount, currency, method, status, reference, created_at, updated_at
		FROM withdrawals
		WHERE id = $1
		FOR UPDATE
	`

	var w models.Withdrawal
	err := r.q.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.OwnerType,
		&w.OwnerID,
		&w.Amount,
		&w.Currency,
		&w.Method,
		&w.Status,
		&w.Reference,
		&w.CreatedAt,
		&w.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal %s: %w", id, err)
	}

	return &w, nil
}

// UpdateStatus sets the status and optional reference, returning the updated row
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.WithdrawalStatus, reference *string) (*models.Withdrawal, error) {
	query := `
		UPDATE withdrawals
		SET status = $1, reference = COALESCE($2, reference), updated_at = NOW()
		WHERE id = $3
		RETURNING id, owner_type, owner_id, amount, currency, method, status, reference, created_at, updated_at
	`

	var w models.Withdrawal
	err := r.q.QueryRow(ctx, query, status, reference, id).Scan(
		&w.ID,
		&w.OwnerType,
		&w.OwnerID,
		&w.Amount,
		&w.Currency,
		&w.Method,
		&w.Status,
		&w.Reference,
		&w.CreatedAt,
		&w.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("withdrawal %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update withdrawal %s status: %w", id, err)
	}

	return &w, nil
}

// ListByOwner returns withdrawals for an owner, optionally filtered by status, newest first
func (r *WithdrawalRepository) ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, status *models.WithdrawalStatus, limit int) ([]*models.Withdrawal, error) {
	query := `
		SELECT id, owner_type, owner_id, amount, currency, method, status, reference, created_at, updated_at
		FROM withdrawals
		WHERE owner_type = $1 AND owner_id = $2 AND ($3::text IS NULL OR status = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`

	rows, err := r.q.Query(ctx, query, ownerType, ownerID, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals for %s %s: %w", ownerType, ownerID, err)
	}
	defer rows.Close()

	var withdrawals []*models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		err := rows.Scan(
			&w.ID,
			&w.OwnerType,
			&w.OwnerID,
			&w.Amount,
			&w.Currency,
			&w.Method,
			&w.Status,
			&w.Reference,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &w)
	}

	return withdrawals, rows.Err()
}
