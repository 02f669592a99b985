package service

import (
	"partnertrack/config"
	"partnertrack/models"

	"github.com/shopspring/decimal"
)

// CommissionConfig holds the commission parameters injected at construction.
// Calculations never read ambient process state, so they stay pure functions.
type CommissionConfig struct {
	AffiliateModel       config.AffiliateModel
	AffiliateCPAFTD      decimal.Decimal
	AffiliateRevSharePct decimal.Decimal
	AgentRevSharePct     decimal.Decimal
}

// CommissionConfigFromEnv builds a CommissionConfig from the loaded application config
func CommissionConfigFromEnv(cfg *config.Config) CommissionConfig {
	return CommissionConfig{
		AffiliateModel:       cfg.AffiliateModel,
		AffiliateCPAFTD:      cfg.AffiliateCPAFTD,
		AffiliateRevSharePct: cfg.AffiliateRevSharePct,
		AgentRevSharePct:     cfg.AgentRevSharePct,
	}
}

// AgentCommission computes the revenue-share commission on player net losses.
// Agents are always revenue-share; there is no CPA mode for them.
func (c CommissionConfig) AgentCommission(netLosses decimal.Decimal) decimal.Decimal {
	return netLosses.Mul(c.AgentRevSharePct)
}

// AffiliateCommission computes the commission for an affiliate event under the
// configured global model. Under CPA only ftd events pay, a fixed amount
// regardless of the deposit size; under REVSHARE only deposit events pay, a
// share of the amount. Every other combination yields zero, which callers
// treat as a no-op rather than an error.
func (c CommissionConfig) AffiliateCommission(eventType models.EventType, amount decimal.Decimal) decimal.Decimal {
	if c.AffiliateModel == config.AffiliateModelCPA && eventType == models.EventTypeFTD {
		return c.AffiliateCPAFTD
	}
	if c.AffiliateModel == config.AffiliateModelRevShare && eventType == models.EventTypeDeposit {
		return amount.Mul(c.AffiliateRevSharePct)
	}
	return decimal.Zero
}
