package postgres

import (
	"context"
	"fmt"

	"scholarpay/internal/core/domain"
)

// WebhookEventRepo implements ports.WebhookEventRepository. The unique
// (provider, event_id) constraint makes a redelivered event's insert a
// silent no-op.
type WebhookEventRepo struct {
	pool Pool
}

// NewWebhookEventRepo creates a new WebhookEventRepo.
func NewWebhookEventRepo(pool Pool) *WebhookEventRepo {
	return &WebhookEventRepo{pool: pool}
}

// Create records an inbound notification.
func (r *WebhookEventRepo) Create(ctx context.Context, e *domain.WebhookEvent) error {
	query := `INSERT INTO webhook_events (id, provider, event_id, event_type, applied_status, transaction_id, flagged, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider, event_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.Provider, e.EventID, e.EventType,
		e.AppliedStatus, e.TransactionID, e.Flagged, e.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

// Exists reports whether this provider event was already recorded.
func (r *WebhookEventRepo) Exists(ctx context.Context, provider, eventID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM webhook_events WHERE provider = $1 AND event_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, provider, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check webhook event exists: %w", err)
	}
	return exists, nil
}
