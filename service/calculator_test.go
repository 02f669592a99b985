package service

import (
	"testing"

	"partnertrack/config"
	"partnertrack/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cpaConfig() CommissionConfig {
	return CommissionConfig{
		AffiliateModel:       config.AffiliateModelCPA,
		AffiliateCPAFTD:      decimal.NewFromInt(30),
		AffiliateRevSharePct: decimal.NewFromFloat(0.1),
		AgentRevSharePct:     decimal.NewFromFloat(0.1),
	}
}

func revshareConfig() CommissionConfig {
	c := cpaConfig()
	c.AffiliateModel = config.AffiliateModelRevShare
	return c
}

func TestAgentCommission(t *testing.T) {
	calc := cpaConfig()

	commission := calc.AgentCommission(decimal.NewFromInt(100))
	assert.True(t, commission.Equal(decimal.NewFromInt(10)), "10%% of 100 losses")

	assert.True(t, calc.AgentCommission(decimal.Zero).IsZero())
}

func TestAffiliateCommission_CPA(t *testing.T) {
	calc := cpaConfig()

	t.Run("ftd pays fixed amount regardless of deposit size", func(t *testing.T) {
		small := calc.AffiliateCommission(models.EventTypeFTD, decimal.NewFromInt(5))
		large := calc.AffiliateCommission(models.EventTypeFTD, decimal.NewFromInt(5000))

		assert.True(t, small.Equal(decimal.NewFromInt(30)))
		assert.True(t, large.Equal(decimal.NewFromInt(30)))
	})

	t.Run("deposit pays nothing", func(t *testing.T) {
		commission := calc.AffiliateCommission(models.EventTypeDeposit, decimal.NewFromInt(1000))
		assert.True(t, commission.IsZero())
	})
}

func TestAffiliateCommission_RevShare(t *testing.T) {
	calc := revshareConfig()

	t.Run("deposit pays a share of the amount", func(t *testing.T) {
		commission := calc.AffiliateCommission(models.EventTypeDeposit, decimal.NewFromInt(200))
		assert.True(t, commission.Equal(decimal.NewFromInt(20)))
	})

	t.Run("ftd pays nothing", func(t *testing.T) {
		commission := calc.AffiliateCommission(models.EventTypeFTD, decimal.NewFromInt(200))
		assert.True(t, commission.IsZero())
	})
}

func TestAffiliateCommission_NonEarningEvents(t *testing.T) {
	for _, calc := range []CommissionConfig{cpaConfig(), revshareConfig()} {
		for _, eventType := range []models.EventType{models.EventTypeClick, models.EventTypeRegistration, models.EventTypeLoss} {
			commission := calc.AffiliateCommission(eventType, decimal.NewFromInt(100))
			assert.True(t, commission.IsZero(), "event %s under model %s", eventType, calc.AffiliateModel)
		}
	}
}
