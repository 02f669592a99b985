package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerType identifies which kind of partner owns a campaign, ledger row or withdrawal
type OwnerType string

const (
	OwnerTypeAgent     OwnerType = "agent"
	OwnerTypeAffiliate OwnerType = "affiliate"
)

// Valid reports whether the owner type is one of the known kinds
func (t OwnerType) Valid() bool {
	return t == OwnerTypeAgent || t == OwnerTypeAffiliate
}

// Owner represents an agent or affiliate wallet row.
// WalletBalance is the total ever credited, debited only when a withdrawal is paid.
// WithdrawableBalance excludes funds locked by pending/approved withdrawals.
type Owner struct {
	ID                  uuid.UUID       `db:"id"`
	Type                OwnerType       `db:"-"`
	UserID              uuid.UUID       `db:"user_id"`
	WalletBalance       decimal.Decimal `db:"wallet_balance"`
	WithdrawableBalance decimal.Decimal `db:"withdrawable_balance"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}
