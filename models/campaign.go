package models

import (
	"time"

	"github.com/google/uuid"
)

// CampaignStatus represents whether a campaign accepts traffic
type CampaignStatus string

const (
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusPaused CampaignStatus = "paused"
)

// Campaign is a tracking link owned by an agent or affiliate. Events recorded
// through a campaign denormalize its owner at creation time.
type Campaign struct {
	ID        uuid.UUID      `db:"id"`
	Code      string         `db:"code"`
	Name      string         `db:"name"`
	OwnerType OwnerType      `db:"owner_type"`
	OwnerID   uuid.UUID      `db:"owner_id"`
	Status    CampaignStatus `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
}

// IsActive reports whether the campaign accepts new tracking events
func (c *Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}
