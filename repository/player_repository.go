package repository

import (
	"context"
	"fmt"

	"partnertrack/database"
	"partnertrack/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PlayerRepository implements the PlayerRepository interface using PostgreSQL
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	return r.get(ctx, "id", id)
}

// GetByUsername retrieves a player by username
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	return r.get(ctx, "username", username)
}

func (r *PlayerRepository) get(ctx context.Context, column string, value any) (*models.Player, error) {
	query := fmt.Sprintf(`
		SELECT id, username, agent_id, total_deposits, total_losses, status, created_at
		FROM players
		WHERE %s = $1
	`, column)

	var player models.Player
	err := r.q.QueryRow(ctx, query, value).Scan(
		&player.ID,
		&player.Username,
		&player.AgentID,
		&player.TotalDeposits,
		&player.TotalLosses,
		&player.Status,
		&player.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by %s %v: %w", column, value, err)
	}

	return &player, nil
}

// Create inserts a new player
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (username, agent_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, total_deposits, total_losses, created_at
	`

	err := r.q.QueryRow(ctx, query,
		player.Username,
		player.AgentID,
		player.Status,
	).Scan(&player.ID, &player.TotalDeposits, &player.TotalLosses, &player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create player %q: %w", player.Username, err)
	}

	return nil
}

// AddDeposit increments the player's lifetime deposit total
func (r *PlayerRepository) AddDeposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.addTotal(ctx, "total_deposits", id, amount)
}

// AddLoss increments the player's lifetime loss total
func (r *PlayerRepository) AddLoss(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.addTotal(ctx, "total_losses", id, amount)
}

func (r *PlayerRepository) addTotal(ctx context.Context, column string, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	query := fmt.Sprintf(`
		UPDATE players SET %s = %s + $1 WHERE id = $2
	`, column, column)

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to update %s for player %s: %w", column, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("player %s not found", id)
	}

	return nil
}
