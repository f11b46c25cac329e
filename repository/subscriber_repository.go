package repository

import (
	"context"
	"fmt"

	"auctioneer/database"
	"auctioneer/models"
)

// SubscriberRepository implements the service.SubscriberRepository interface
type SubscriberRepository struct {
	q queryable
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *database.DB) *SubscriberRepository {
	return &SubscriberRepository{q: db.Pool}
}

// Register inserts the subscriber if absent. Re-registration is a no-op
// apart from refreshing the display name.
func (r *SubscriberRepository) Register(ctx context.Context, telegramID int64, displayName string) error {
	query := `
		INSERT INTO subscribers (telegram_id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET display_name = EXCLUDED.display_name
	`

	if _, err := r.q.Exec(ctx, query, telegramID, displayName); err != nil {
		return fmt.Errorf("failed to register subscriber %d: %w", telegramID, err)
	}

	return nil
}

// ListAll returns every registered subscriber, fetched fully into memory.
// Expected scale is tens to thousands of rows.
func (r *SubscriberRepository) ListAll(ctx context.Context) ([]*models.Subscriber, error) {
	query := `
		SELECT telegram_id, display_name, created_at
		FROM subscribers
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.TelegramID, &sub.DisplayName, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}

	return subscribers, nil
}
