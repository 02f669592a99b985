package repository

import (
	"context"
	"fmt"

	"partnertrack/database"
	"partnertrack/models"

	"github.com/google/uuid"
)

// TrackingEventRepository implements the TrackingEventRepository interface using PostgreSQL
type TrackingEventRepository struct {
	q queryable
}

// NewTrackingEventRepository creates a new tracking event repository
func NewTrackingEventRepository(db *database.DB) *TrackingEventRepository {
	return &TrackingEventRepository{q: db.Pool}
}

// newTrackingEventRepositoryWithTx creates a new tracking event repository with a transaction
func newTrackingEventRepositoryWithTx(tx queryable) *TrackingEventRepository {
	return &TrackingEventRepository{q: tx}
}

// Create appends a tracking event
func (r *TrackingEventRepository) Create(ctx context.Context, event *models.TrackingEvent) error {
	query := `
		INSERT INTO tracking_events (type, player_id, campaign_id, owner_type, owner_id, amount, currency, ip, ua)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		event.Type,
		event.PlayerID,
		event.CampaignID,
		event.OwnerType,
		event.OwnerID,
		event.Amount,
		event.Currency,
		event.IP,
		event.UA,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s event for %s %s: %w", event.Type, event.OwnerType, event.OwnerID, err)
	}

	return nil
}

// HasFTD reports whether the player already has a first-time-deposit event
func (r *TrackingEventRepository) HasFTD(ctx context.Context, playerID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tracking_events WHERE player_id = $1 AND type = $2
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query, playerID, models.EventTypeFTD).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ftd for player %s: %w", playerID, err)
	}

	return exists, nil
}

// ListByOwner returns events attributed to an owner, optionally filtered by type, newest first
func (r *TrackingEventRepository) ListByOwner(ctx context.Context, ownerType models.OwnerType, ownerID uuid.UUID, eventType *models.EventType, limit int) ([]*models.TrackingEvent, error) {
	query := `
		SELECT id, type, player_id, campaign_id, owner_type, owner_id, amount, currency, ip, ua, created_at
		FROM tracking_events
		WHERE owner_type = $1 AND owner_id = $2 AND ($3::text IS NULL OR type = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`

	rows, err := r.q.Query(ctx, query, ownerType, ownerID, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s %s: %w", ownerType, ownerID, err)
	}
	defer rows.Close()

	var events []*models.TrackingEvent
	for rows.Next() {
		var e models.TrackingEvent
		err := rows.Scan(
			&e.ID,
			&e.Type,
			&e.PlayerID,
			&e.CampaignID,
			&e.OwnerType,
			&e.OwnerID,
			&e.Amount,
			&e.Currency,
			&e.IP,
			&e.UA,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracking event: %w", err)
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}
