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

func TestRollupService_RollupPeriod_Weekly(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockLedgerRepo := new(MockLedgerRepository)
	mockOwnerRepo := new(MockOwnerRepository)

	mockUoW.SetRepositories(mockOwnerRepo, mockLedgerRepo, nil, nil, nil, nil, nil)

	service := NewRollupService(mockFactory)

	agentID := uuid.New()
	affiliateID := uuid.New()
	// Saturday of ISO week 10
	at := time.Date(2026, 3, 7, 3, 0, 0, 0, time.UTC)

	totals := []*models.LedgerTotals{
		{OwnerType: models.OwnerTypeAgent, OwnerID: agentID, Currency: "USD", Gross: decimal.NewFromInt(25), Adjustments: decimal.NewFromInt(5)},
		{OwnerType: models.OwnerTypeAffiliate, OwnerID: affiliateID, Currency: "USD", Gross: decimal.NewFromInt(60), Adjustments: decimal.Zero},
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// All seven daily keys of the containing week feed the aggregation
	mockLedgerRepo.On("SumDailyByKeys", ctx, []string{
		"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05",
		"2026-03-06", "2026-03-07", "2026-03-08",
	}).Return(totals, nil)

	mockLedgerRepo.On("Upsert", ctx, mock.MatchedBy(func(l *models.CommissionLedger) bool {
		return l.OwnerType == models.OwnerTypeAgent &&
			l.OwnerID == agentID &&
			l.Period == models.PeriodWeekly &&
			l.PeriodKey == "2026-W10" &&
			l.Gross.Equal(decimal.NewFromInt(25)) &&
			l.Adjustments.Equal(decimal.NewFromInt(5)) &&
			l.Commission.Equal(decimal.NewFromInt(30))
	})).Return(nil)
	mockLedgerRepo.On("Upsert", ctx, mock.MatchedBy(func(l *models.CommissionLedger) bool {
		return l.OwnerType == models.OwnerTypeAffiliate &&
			l.OwnerID == affiliateID &&
			l.PeriodKey == "2026-W10" &&
			l.Commission.Equal(decimal.NewFromInt(60))
	})).Return(nil)

	err := service.RollupPeriod(ctx, models.PeriodWeekly, at)

	assert.NoError(t, err)
	mockLedgerRepo.AssertExpectations(t)
	// Rollups never touch balances
	mockOwnerRepo.AssertNotCalled(t, "CreditCommission")
}

func TestRollupService_RollupPeriod_MonthlyNoRows(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockLedgerRepo := new(MockLedgerRepository)

	mockUoW.SetRepositories(nil, mockLedgerRepo, nil, nil, nil, nil, nil)

	service := NewRollupService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLedgerRepo.On("SumDailyByKeys", ctx, mock.AnythingOfType("[]string")).Return([]*models.LedgerTotals{}, nil)

	err := service.RollupPeriod(ctx, models.PeriodMonthly, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	mockLedgerRepo.AssertNotCalled(t, "Upsert")
}

func TestRollupService_RollupPeriod_RejectsDaily(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewRollupService(mockFactory)

	err := service.RollupPeriod(ctx, models.PeriodDaily, time.Now())

	assert.True(t, errors.Is(err, ErrValidation))
	mockFactory.AssertNotCalled(t, "Create")
}
