package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType represents the type of tracking event
type EventType string

const (
	EventTypeClick        EventType = "click"
	EventTypeRegistration EventType = "registration"
	EventTypeDeposit      EventType = "deposit"
	EventTypeFTD          EventType = "ftd"
	EventTypeLoss         EventType = "loss"
)

// TrackingEvent is an append-only attribution fact. Rows are never updated
// or deleted after creation.
type TrackingEvent struct {
	ID         uuid.UUID        `db:"id"`
	Type       EventType        `db:"type"`
	PlayerID   *uuid.UUID       `db:"player_id"`
	CampaignID *uuid.UUID       `db:"campaign_id"`
	OwnerType  OwnerType        `db:"owner_type"`
	OwnerID    uuid.UUID        `db:"owner_id"`
	Amount     *decimal.Decimal `db:"amount"`
	Currency   string           `db:"currency"`
	IP         string           `db:"ip"`
	UA         string           `db:"ua"`
	CreatedAt  time.Time        `db:"created_at"`
}
