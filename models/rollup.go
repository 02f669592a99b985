package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerTotals is an aggregation of daily ledger rows for one owner,
// produced by the rollup when recomputing weekly/monthly rows.
type LedgerTotals struct {
	OwnerType   OwnerType       `db:"owner_type"`
	OwnerID     uuid.UUID       `db:"owner_id"`
	Currency    string          `db:"currency"`
	Gross       decimal.Decimal `db:"gross"`
	Adjustments decimal.Decimal `db:"adjustments"`
}
