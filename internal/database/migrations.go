package database

import (
	"context"
	"fmt"

	"partyplan/internal/logger"
)

func (db *DB) RunMigrations(ctx context.Context) error {
	log := logger.WithContext(ctx)
	log.Info().Msg("Running database migrations...")

	migrations := []string{
		createProfilesTable,
		createEventsTable,
		createBookingsTable,
		createNotificationsTable,
		createPaymentRemindersTable,
		createEventsStartDateIndex,
		createBookingsOutstandingIndex,
	}

	for i, migration := range migrations {
		log.Info().Int("step", i+1).Msg("Running migration")
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    email VARCHAR(255),
    full_name VARCHAR(255),
    email_notifications BOOLEAN,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    title VARCHAR(500) NOT NULL,
    honoree_name VARCHAR(255) NOT NULL,
    start_date DATE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'planning',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('planning', 'booked', 'completed', 'cancelled'))
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    total_amount BIGINT NOT NULL,
    deposit_amount BIGINT NOT NULL DEFAULT 0,
    remaining_amount BIGINT,
    deposit_paid_at TIMESTAMPTZ,
    fully_paid_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (remaining_amount IS NULL OR remaining_amount >= 0)
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    event_id UUID REFERENCES events(id) ON DELETE SET NULL,
    type VARCHAR(64) NOT NULL,
    title VARCHAR(255) NOT NULL,
    body TEXT NOT NULL,
    action_url VARCHAR(500),
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// The (booking_id, days_before_event) key is what makes reminders send at most once.
const createPaymentRemindersTable = `
CREATE TABLE IF NOT EXISTS payment_reminders (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    days_before_event INTEGER NOT NULL,
    reminder_type VARCHAR(20) NOT NULL,
    notification_id UUID REFERENCES notifications(id) ON DELETE SET NULL,
    push_sent BOOLEAN NOT NULL DEFAULT FALSE,
    email_sent BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE (booking_id, days_before_event),
    CHECK (days_before_event IN (21, 18, 16, 14))
);`

const createEventsStartDateIndex = `
CREATE INDEX IF NOT EXISTS events_start_date_status_idx
ON events (start_date, status);`

const createBookingsOutstandingIndex = `
CREATE INDEX IF NOT EXISTS bookings_outstanding_idx
ON bookings (event_id)
WHERE deposit_paid_at IS NOT NULL AND fully_paid_at IS NULL;`
