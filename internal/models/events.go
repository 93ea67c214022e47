package models

import (
	"time"

	"github.com/google/uuid"
)

// NATS Event Types
const (
	EventPaymentReminderSent      = "payment_reminder.sent"
	EventEventCancelledNonpayment = "event.cancelled_nonpayment"
)

// PaymentReminderSentEvent is published after a reminder's channels were attempted
type PaymentReminderSentEvent struct {
	ReminderID      uuid.UUID `json:"reminder_id"`
	BookingID       uuid.UUID `json:"booking_id"`
	EventID         uuid.UUID `json:"event_id"`
	UserID          uuid.UUID `json:"user_id"`
	DaysBeforeEvent int       `json:"days_before_event"`
	ReminderType    string    `json:"reminder_type"`
	PushSent        bool      `json:"push_sent"`
	EmailSent       bool      `json:"email_sent"`
	Timestamp       time.Time `json:"timestamp"`
}

// EventCancelledNonpaymentEvent is published when the final milestone cancels an event
type EventCancelledNonpaymentEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	EventID        uuid.UUID `json:"event_id"`
	UserID         uuid.UUID `json:"user_id"`
	RemainingCents int64     `json:"remaining_cents"`
	Timestamp      time.Time `json:"timestamp"`
}
