package repository

import (
	"context"
	"errors"
	"fmt"

	"partyplan/internal/database"
	apperrors "partyplan/internal/errors"
	"partyplan/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres SQLSTATE for unique_violation
const uniqueViolation = pq.ErrorCode("23505")

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create records a reminder for (booking, days before event). The table's
// unique key makes this the only gate against duplicate sends; a conflict is
// reported as ErrReminderExists.
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.PaymentReminder) error {
	query := `
		INSERT INTO payment_reminders (booking_id, event_id, user_id, days_before_event, reminder_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reminder.BookingID,
		reminder.EventID,
		reminder.UserID,
		reminder.DaysBeforeEvent,
		reminder.ReminderType,
	).Scan(&reminder.ID, &reminder.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrReminderExists
		}
		return fmt.Errorf("failed to record reminder: %w", err)
	}
	return nil
}

// SetNotification links the in-app notification to the reminder
func (r *ReminderRepository) SetNotification(ctx context.Context, id, notificationID uuid.UUID) error {
	query := `UPDATE payment_reminders SET notification_id = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, notificationID, id); err != nil {
		return fmt.Errorf("failed to link notification to reminder %s: %w", id, err)
	}
	return nil
}

// UpdateChannels stores the push and email outcomes
func (r *ReminderRepository) UpdateChannels(ctx context.Context, id uuid.UUID, pushSent, emailSent bool) error {
	query := `UPDATE payment_reminders SET push_sent = $1, email_sent = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, pushSent, emailSent, id); err != nil {
		return fmt.Errorf("failed to update channels of reminder %s: %w", id, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
