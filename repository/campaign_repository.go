package repository

import (
	"context"
	"fmt"

	"partnertrack/database"
	"partnertrack/models"

	"github.com/jackc/pgx/v5"
)

// CampaignRepository implements the CampaignRepository interface using PostgreSQL
type CampaignRepository struct {
	q queryable
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *database.DB) *CampaignRepository {
	return &CampaignRepository{q: db.Pool}
}

// newCampaignRepositoryWithTx creates a new campaign repository with a transaction
func newCampaignRepositoryWithTx(tx queryable) *CampaignRepository {
	return &CampaignRepository{q: tx}
}

// GetByCode retrieves a campaign by its tracking code
func (r *CampaignRepository) GetByCode(ctx context.Context, code string) (*models.Campaign, error) {
	query := `
		SELECT id, code, name, owner_type, owner_id, status, created_at
		FROM campaigns
		WHERE code = $1
	`

	var campaign models.Campaign
	err := r.q.QueryRow(ctx, query, code).Scan(
		&campaign.ID,
		&campaign.Code,
		&campaign.Name,
		&campaign.OwnerType,
		&campaign.OwnerID,
		&campaign.Status,
		&campaign.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %q: %w", code, err)
	}

	return &campaign, nil
}

// Create inserts a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (code, name, owner_type, owner_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		campaign.Code,
		campaign.Name,
		campaign.OwnerType,
		campaign.OwnerID,
		campaign.Status,
	).Scan(&campaign.ID, &campaign.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign %q: %w", campaign.Code, err)
	}

	return nil
}
