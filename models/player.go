package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlayerStatus represents the account state of a referred player
type PlayerStatus string

const (
	PlayerStatusActive  PlayerStatus = "active"
	PlayerStatusBlocked PlayerStatus = "blocked"
)

// Player is a referred gaming account. Players registered through an agent
// campaign carry that agent's ID; affiliate-referred players have no agent.
type Player struct {
	ID            uuid.UUID       `db:"id"`
	Username      string          `db:"username"`
	AgentID       *uuid.UUID      `db:"agent_id"`
	TotalDeposits decimal.Decimal `db:"total_deposits"`
	TotalLosses   decimal.Decimal `db:"total_losses"`
	Status        PlayerStatus    `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}
