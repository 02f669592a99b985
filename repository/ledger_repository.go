package repository

import (
	"context"
	"fmt"

	"partnertrack/database"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the LedgerRepository interface using PostgreSQL
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// GetForUpdate retrieves the ledger row for the composite key and locks it
func (r *LedgerRepository) GetForUpdate(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, period models.Period, periodKey string) (*models.CommissionLedger, error) {
	query := `
		SELECT id, owner_type, owner_id, period, period_key, currency,
		       gross, adjustments, commission, created_at, updated_at
		FROM commission_ledger
		WHERE owner_type = $1 AND owner_id = $2 AND period = $3 AND period_key = $4
		FOR UPDATE
	`

	var ledger models.CommissionLedger
	err := r.q.QueryRow(ctx, query, ownerType, ownerID, period, periodKey).Scan(
		&ledger.ID,
		&ledger.OwnerType,
		&ledger.OwnerID,
		&ledger.Period,
		&ledger.PeriodKey,
		&ledger.Currency,
		&ledger.Gross,
		&ledger.Adjustments,
		&ledger.Commission,
		&ledger.CreatedAt,
		&ledger.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger row %s/%s %s %s: %w", ownerType, ownerID, period, periodKey, err)
	}

	return &ledger, nil
}

// Upsert inserts or replaces the ledger row identified by its composite key
func (r *LedgerRepository) Upsert(ctx context.Context, ledger *models.CommissionLedger) error {
	query := `
		INSERT INTO commission_ledger (owner_type, owner_id, period, period_key, currency, gross, adjustments, commission)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_type, owner_id, period, period_key)
		DO UPDATE SET
			currency = EXCLUDED.currency,
			gross = EXCLUDED.gross,
			adjustments = EXCLUDED.adjustments,
			commission = EXCLUDED.commission,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		ledger.OwnerType,
		ledger.OwnerID,
		ledger.Period,
		ledger.PeriodKey,
		ledger.Currency,
		ledger.Gross,
		ledger.Adjustments,
		ledger.Commission,
	).Scan(&ledger.ID, &ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert ledger row %s/%s %s %s: %w",
			ledger.OwnerType, ledger.OwnerID, ledger.Period, ledger.PeriodKey, err)
	}

	return nil
}

// ListByOwner returns ledger rows for an owner at a granularity, newest first
func (r *LedgerRepository) ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, period models.Period, limit int) ([]*models.CommissionLedger, error) {
	query := `
		SELECT id, owner_type, owner_id, period, period_key, currency,
		       gross, adjustments, commission, created_at, updated_at
		FROM commission_ledger
		WHERE owner_type = $1 AND owner_id = $2 AND period = $3
		ORDER BY period_key DESC
		LIMIT $4
	`

	rows, err := r.q.Query(ctx, query, ownerType, ownerID, period, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger rows for %s %s: %w", ownerType, ownerID, err)
	}
	defer rows.Close()

	var ledgers []*models.CommissionLedger
	for rows.Next() {
		var ledger models.CommissionLedger
		err := rows.Scan(
			&ledger.ID,
			&ledger.OwnerType,
			&ledger.OwnerID,
			&ledger.Period,
			&ledger.PeriodKey,
			&ledger.Currency,
			&ledger.Gross,
			&ledger.Adjustments,
			&ledger.Commission,
			&ledger.CreatedAt,
			&ledger.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		ledgers = append(ledgers, &ledger)
	}

	return ledgers, rows.Err()
}

// SumDailyByKeys aggregates daily rows across the given period keys,
// grouped per owner and currency
func (r *LedgerRepository) SumDailyByKeys(ctx context.Context, periodKeys []string) ([]*models.LedgerTotals, error) {
	if len(periodKeys) == 0 {
		return nil, nil
	}

	query := `
		SELECT owner_type, owner_id, currency, SUM(gross), SUM(adjustments)
		FROM commission_ledger
		WHERE period = 'daily' AND period_key = ANY($1)
		GROUP BY owner_type, owner_id, currency
	`

	rows, err := r.q.Query(ctx, query, periodKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to sum daily ledger rows: %w", err)
	}
	defer rows.Close()

	var totals []*models.LedgerTotals
	for rows.Next() {
		var t models.LedgerTotals
		err := rows.Scan(&t.OwnerType, &t.OwnerID, &t.Currency, &t.Gross, &t.Adjustments)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger totals: %w", err)
		}
		totals = append(totals, &t)
	}

	return totals, rows.Err()
}
