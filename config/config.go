package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// AffiliateModel selects how affiliate commissions are computed globally
type AffiliateModel string

const (
	AffiliateModelCPA      AffiliateModel = "CPA"
	AffiliateModelRevShare AffiliateModel = "REVSHARE"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Commission configuration
	AffiliateModel       AffiliateModel  // CPA or REVSHARE
	AffiliateCPAFTD      decimal.Decimal // fixed commission per first-time deposit
	AffiliateRevSharePct decimal.Decimal // 0-1, share of each deposit
	AgentRevSharePct     decimal.Decimal // 0-1, share of player net losses

	// Rollup worker configuration
	RollupIntervalMinutes int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Commission settings with defaults
		AffiliateModel:       AffiliateModelCPA,
		AffiliateCPAFTD:      decimal.NewFromInt(30),
		AffiliateRevSharePct: decimal.NewFromFloat(0.1),
		AgentRevSharePct:     decimal.NewFromFloat(0.1),

		RollupIntervalMinutes: 60,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if model := os.Getenv("AFFILIATE_MODEL"); model != "" {
		config.AffiliateModel = AffiliateModel(model)
	}
	if cpa := os.Getenv("AFFILIATE_CPA_FTD"); cpa != "" {
		parsed, err := decimal.NewFromString(cpa)
		if err != nil {
			return nil, fmt.Errorf("invalid AFFILIATE_CPA_FTD %q: %w", cpa, err)
		}
		config.AffiliateCPAFTD = parsed
	}
	if pct := os.Getenv("AFFILIATE_REVSHARE_PCT"); pct != "" {
		parsed, err := decimal.NewFromString(pct)
		if err != nil {
			return nil, fmt.Errorf("invalid AFFILIATE_REVSHARE_PCT %q: %w", pct, err)
		}
		config.AffiliateRevSharePct = parsed
	}
	if pct := os.Getenv("AGENT_REVSHARE_PCT"); pct != "" {
		parsed, err := decimal.NewFromString(pct)
		if err != nil {
			return nil, fmt.Errorf("invalid AGENT_REVSHARE_PCT %q: %w", pct, err)
		}
		config.AgentRevSharePct = parsed
	}
	if interval := os.Getenv("ROLLUP_INTERVAL_MINUTES"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.RollupIntervalMinutes = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks the configuration before the process starts serving
func (c *Config) validate() error {
	if c.AffiliateModel != AffiliateModelCPA && c.AffiliateModel != AffiliateModelRevShare {
		return fmt.Errorf("AFFILIATE_MODEL must be CPA or REVSHARE, got %q", c.AffiliateModel)
	}
	if !c.AffiliateCPAFTD.IsPositive() {
		return fmt.Errorf("AFFILIATE_CPA_FTD must be positive, got %s", c.AffiliateCPAFTD)
	}
	one := decimal.NewFromInt(1)
	if c.AffiliateRevSharePct.IsNegative() || c.AffiliateRevSharePct.GreaterThan(one) {
		return fmt.Errorf("AFFILIATE_REVSHARE_PCT must be between 0 and 1, got %s", c.AffiliateRevSharePct)
	}
	if c.AgentRevSharePct.IsNegative() || c.AgentRevSharePct.GreaterThan(one) {
		return fmt.Errorf("AGENT_REVSHARE_PCT must be between 0 and 1, got %s", c.AgentRevSharePct)
	}

	if c.Environment != "test" {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	}

	return nil
}
