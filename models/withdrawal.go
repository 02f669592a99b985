package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents the state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
	WithdrawalStatusPaid     WithdrawalStatus = "paid"
)

// Valid reports whether the status is one of the known states
func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusRejected, WithdrawalStatusPaid:
		return true
	}
	return false
}

// Withdrawal represents a payout request. Amount, method and currency are
// immutable after creation; only status and reference change.
//
// The withdrawable balance is locked at creation time, not at approval:
// pending and approved withdrawals both hold the lock.
type Withdrawal struct {
	ID        uuid.UUID        `db:"id"`
	OwnerType OwnerType        `db:"owner_type"`
	OwnerID   uuid.UUID        `db:"owner_id"`
	Amount    decimal.Decimal  `db:"amount"`
	Currency  string           `db:"currency"`
	Method    string           `db:"method"`
	Status    WithdrawalStatus `db:"status"`
	Reference *string          `db:"reference"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// ReleasesLockOnReject reports whether rejecting now should return the locked
// amount to the withdrawable balance. Only a pending withdrawal holds a lock
// that a reject can release; anything else already settled its balance effect.
func (w *Withdrawal) ReleasesLockOnReject() bool {
	return w.Status == WithdrawalStatusPending
}

// DebitsWalletOnPay reports whether marking paid should debit the wallet
// balance. Paying an already-paid withdrawal must not debit twice.
func (w *Withdrawal) DebitsWalletOnPay() bool {
	return w.Status != WithdrawalStatusPaid
}
