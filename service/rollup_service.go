package service

import (
	"context"
	"fmt"
	"time"

	"partnertrack/models"

	log "github.com/sirupsen/logrus"
)

// rollupService implements the RollupService interface.
//
// Weekly and monthly ledger rows are pure aggregates of the daily rows the
// settlement engine writes; reporting reads them, balances never change here.
// Each run recomputes the target rows from scratch, so re-running a rollup
// for the same period is idempotent.
type rollupService struct {
	uowFactory UnitOfWorkFactory
}

// NewRollupService creates a new rollup service
func NewRollupService(uowFactory UnitOfWorkFactory) RollupService {
	return &rollupService{
		uowFactory: uowFactory,
	}
}

// RollupPeriod recomputes the weekly or monthly rows covering the given time
func (s *rollupService) RollupPeriod(ctx context.Context, period models.Period, at time.Time) error {
	if period != models.PeriodWeekly && period != models.PeriodMonthly {
		return fmt.Errorf("%w: rollup period must be weekly or monthly, got %q", ErrValidation, period)
	}

	periodKey := PeriodKey(at, period)
	dailyKeys := DailyKeysForPeriod(at, period)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	totals, err := uow.LedgerRepository().SumDailyByKeys(ctx, dailyKeys)
	if err != nil {
		return fmt.Errorf("failed to aggregate daily ledger rows: %w", err)
	}

	for _, total := range totals {
		ledger := &models.CommissionLedger{
			OwnerType:   total.OwnerType,
			OwnerID:     total.OwnerID,
			Period:      period,
			PeriodKey:   periodKey,
			Currency:    total.Currency,
			Gross:       total.Gross,
			Adjustments: total.Adjustments,
			Commission:  total.Gross.Add(total.Adjustments),
		}
		if err := uow.LedgerRepository().Upsert(ctx, ledger); err != nil {
			return fmt.Errorf("failed to upsert %s rollup row for %s %s: %w", period, total.OwnerType, total.OwnerID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if len(totals) > 0 {
		log.WithFields(log.Fields{
			"period":    period,
			"periodKey": periodKey,
			"owners":    len(totals),
		}).Info("Rolled up commission ledger")
	}

	return nil
}
