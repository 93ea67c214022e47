package repository

import (
	"context"
	"fmt"

	"partyplan/internal/database"
	"partyplan/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, event_id, type, title, body, action_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		n.UserID,
		n.EventID,
		n.Type,
		n.Title,
		n.Body,
		n.ActionURL,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s notification: %w", n.Type, err)
	}
	return nil
}
