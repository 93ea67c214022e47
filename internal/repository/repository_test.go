package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"partyplan/internal/database"
	apperrors "partyplan/internal/errors"
	"partyplan/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return database.New(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestListDueForReminder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	bookingID := uuid.New()
	eventID := uuid.New()
	userID := uuid.New()
	depositPaid := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "event_id", "total_amount", "deposit_amount", "remaining_amount",
		"deposit_paid_at", "fully_paid_at",
		"event_title", "event_honoree_name", "event_start_date", "event_status", "user_id",
	}).AddRow(
		bookingID.String(), eventID.String(), int64(15000), int64(3750), nil,
		depositPaid, nil,
		"Lisbon weekend", "Ana", start, models.EventStatusBooked, userID.String(),
	)

	mock.ExpectQuery(`FROM bookings b\s+JOIN events e ON e.id = b.event_id\s+WHERE b.deposit_paid_at IS NOT NULL\s+AND b.fully_paid_at IS NULL`).
		WithArgs("2026-03-22", models.EventStatusBooked, models.EventStatusPlanning).
		WillReturnRows(rows)

	due, err := repo.ListDueForReminder(context.Background(), "2026-03-22")
	require.NoError(t, err)
	require.Len(t, due, 1)

	b := due[0]
	assert.Equal(t, bookingID, b.ID)
	assert.Equal(t, eventID, b.EventID)
	assert.Equal(t, userID, b.UserID)
	assert.Equal(t, "Lisbon weekend", b.EventTitle)
	assert.Equal(t, "Ana", b.EventHonoreeName)
	assert.Nil(t, b.FullyPaidAt)
	assert.Equal(t, int64(11250), b.RemainingCents())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDueForReminderQueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`FROM bookings b`).WillReturnError(errors.New("connection reset"))

	due, err := repo.ListDueForReminder(context.Background(), "2026-03-15")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "2026-03-15")
	assert.Nil(t, due)
}

func TestIsFullyPaid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT fully_paid_at IS NOT NULL FROM bookings`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(true))

	paid, err := repo.IsFullyPaid(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepository(db)

	reminder := &models.PaymentReminder{
		BookingID:       uuid.New(),
		EventID:         uuid.New(),
		UserID:          uuid.New(),
		DaysBeforeEvent: 21,
		ReminderType:    "normal",
	}
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO payment_reminders`).
		WithArgs(reminder.BookingID.String(), reminder.EventID.String(), reminder.UserID.String(), 21, "normal").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), now))

	require.NoError(t, repo.Create(context.Background(), reminder))
	assert.Equal(t, id, reminder.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderCreateUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepository(db)

	mock.ExpectQuery(`INSERT INTO payment_reminders`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.PaymentReminder{DaysBeforeEvent: 14, ReminderType: "final"})
	assert.ErrorIs(t, err, apperrors.ErrReminderExists)
}

func TestReminderCreateOtherError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepository(db)

	mock.ExpectQuery(`INSERT INTO payment_reminders`).
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign key violation"})

	err := repo.Create(context.Background(), &models.PaymentReminder{DaysBeforeEvent: 18, ReminderType: "moderate"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrReminderExists)
}

func TestReminderUpdateChannels(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE payment_reminders SET push_sent = \$1, email_sent = \$2 WHERE id = \$3`).
		WithArgs(false, true, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateChannels(context.Background(), id, false, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventCancel(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)
	id := uuid.New()

	mock.ExpectExec(`UPDATE events`).
		WithArgs(models.EventStatusCancelled, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventCancelNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(`UPDATE events`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Error(t, repo.Cancel(context.Background(), uuid.New()))
}

func TestNotificationCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	eventID := uuid.New()
	n := &models.Notification{
		UserID:  uuid.New(),
		EventID: &eventID,
		Type:    models.NotificationPaymentReminder,
		Title:   "Payment reminder",
		Body:    "€112.50 is still due",
	}
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), time.Now()))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.Equal(t, id, n.ID)
}

func TestProfileGetByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`FROM profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "email_notifications"}))

	profile, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, profile)
}
