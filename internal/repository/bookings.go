package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyplan/internal/database"
	"partyplan/internal/models"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const listDueForReminderQuery = `
		SELECT b.id, b.event_id, b.total_amount, b.deposit_amount, b.remaining_amount,
		       b.deposit_paid_at, b.fully_paid_at,
		       e.title AS event_title, e.honoree_name AS event_honoree_name,
		       e.start_date AS event_start_date, e.status AS event_status, e.user_id
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.deposit_paid_at IS NOT NULL
		  AND b.fully_paid_at IS NULL
		  AND e.start_date = $1::date
		  AND e.status IN ($2, $3)
		ORDER BY b.created_at, b.id`

// ListDueForReminder returns deposit-paid, not fully paid bookings whose
// active event starts on targetDate (YYYY-MM-DD).
func (r *BookingRepository) ListDueForReminder(ctx context.Context, targetDate string) ([]models.DueBooking, error) {
	var bookings []models.DueBooking
	err := r.db.SelectContext(ctx, &bookings, listDueForReminderQuery,
		targetDate,
		models.EventStatusBooked,
		models.EventStatusPlanning,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings due on %s: %w", targetDate, err)
	}
	return bookings, nil
}

// IsFullyPaid reads the current payment state of a booking
func (r *BookingRepository) IsFullyPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	var fullyPaid bool
	query := `SELECT fully_paid_at IS NOT NULL FROM bookings WHERE id = $1`

	err := r.db.GetContext(ctx, &fullyPaid, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("booking %s not found", id)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read payment state of booking %s: %w", id, err)
	}
	return fullyPaid, nil
}
