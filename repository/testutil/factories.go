package testutil

import (
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestCampaign creates a test campaign with default values
func CreateTestCampaign(code string, ownerType models.OwnerType, ownerID uuid.UUID) *models.Campaign {
	return &models.Campaign{
		Code:      code,
		Name:      "Test campaign " + code,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Status:    models.CampaignStatusActive,
	}
}

// CreateTestPlayer creates a test player with default values
func CreateTestPlayer(username string) *models.Player {
	return &models.Player{
		Username: username,
		Status:   models.PlayerStatusActive,
	}
}

// CreateTestPlayerWithAgent creates a test player attributed to an agent
func CreateTestPlayerWithAgent(username string, agentID uuid.UUID) *models.Player {
	player := CreateTestPlayer(username)
	player.AgentID = &agentID
	return player
}

// CreateTestLedger creates a daily ledger row with the given commission amounts
func CreateTestLedger(ownerType models.OwnerType, ownerID uuid.UUID, periodKey string, gross decimal.Decimal) *models.CommissionLedger {
	return &models.CommissionLedger{
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		Period:      models.PeriodDaily,
		PeriodKey:   periodKey,
		Currency:    "USD",
		Gross:       gross,
		Adjustments: decimal.Zero,
		Commission:  gross,
	}
}

// CreateTestWithdrawal creates a pending withdrawal with default values
func CreateTestWithdrawal(ownerType models.OwnerType, ownerID uuid.UUID, amount decimal.Decimal) *models.Withdrawal {
	return &models.Withdrawal{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Amount:    amount,
		Currency:  "USD",
		Method:    "bank_transfer",
		Status:    models.WithdrawalStatusPending,
	}
}

// CreateTestTrackingEvent creates a tracking event with default values
func CreateTestTrackingEvent(eventType models.EventType, ownerType models.OwnerType, ownerID uuid.UUID) *models.TrackingEvent {
	return &models.TrackingEvent{
		Type:      eventType,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Currency:  "USD",
		IP:        "203.0.113.10",
		UA:        "test-agent/1.0",
	}
}
