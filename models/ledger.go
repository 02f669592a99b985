package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period represents a ledger aggregation granularity
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Valid reports whether the period is a known granularity
func (p Period) Valid() bool {
	return p == PeriodDaily || p == PeriodWeekly || p == PeriodMonthly
}

// CommissionLedger is one settlement row per (owner_type, owner_id, period, period_key).
// The composite key is unique: re-settling the same owner+period updates the row
// rather than inserting a second one.
//
// Gross accumulates commission amounts, not raw event amounts. Downstream reporting
// reads it with that meaning, so it must stay that way.
type CommissionLedger struct {
	ID          uuid.UUID       `db:"id"`
	OwnerType   OwnerType       `db:"owner_type"`
	OwnerID     uuid.UUID       `db:"owner_id"`
	Period      Period          `db:"period"`
	PeriodKey   string          `db:"period_key"`
	Currency    string          `db:"currency"`
	Gross       decimal.Decimal `db:"gross"`
	Adjustments decimal.Decimal `db:"adjustments"`
	Commission  decimal.Decimal `db:"commission"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
