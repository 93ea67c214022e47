package repository

import (
	"context"
	"fmt"

	"partyplan/internal/database"
	"partyplan/internal/models"

	"github.com/google/uuid"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Cancel moves an event to cancelled. Already cancelled events are left untouched.
func (r *EventRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE events
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status <> $1`

	res, err := r.db.ExecContext(ctx, query, models.EventStatusCancelled, id)
	if err != nil {
		return fmt.Errorf("failed to cancel event %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to cancel event %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("event %s not found or already cancelled", id)
	}
	return nil
}
