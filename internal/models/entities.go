package models

import (
	"time"

	"github.com/google/uuid"
)

// Event statuses
const (
	EventStatusPlanning  = "planning"
	EventStatusBooked    = "booked"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Notification types
const (
	NotificationPaymentReminder          = "payment_reminder"
	NotificationEventCancelledNonpayment = "event_cancelled_nonpayment"
)

// Profile represents a user profile
type Profile struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Email              *string   `json:"email" db:"email"`
	FullName           *string   `json:"full_name" db:"full_name"`
	EmailNotifications *bool     `json:"email_notifications" db:"email_notifications"`
}

// WantsEmail reports whether email reminders may be sent. Only an explicit
// opt-out disables them.
func (p *Profile) WantsEmail() bool {
	if p == nil || p.Email == nil || *p.Email == "" {
		return false
	}
	return p.EmailNotifications == nil || *p.EmailNotifications
}

// DisplayName returns the full name, falling back to the email address
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	if p.Email != nil {
		return *p.Email
	}
	return ""
}

// Event represents a planned celebration
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	HonoreeName string    `json:"honoree_name" db:"honoree_name"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Booking represents the financial commitment for one event. Amounts are in cents.
type Booking struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	EventID         uuid.UUID  `json:"event_id" db:"event_id"`
	TotalAmount     int64      `json:"total_amount" db:"total_amount"`
	DepositAmount   int64      `json:"deposit_amount" db:"deposit_amount"`
	RemainingAmount *int64     `json:"remaining_amount" db:"remaining_amount"`
	DepositPaidAt   *time.Time `json:"deposit_paid_at" db:"deposit_paid_at"`
	FullyPaidAt     *time.Time `json:"fully_paid_at" db:"fully_paid_at"`
}

// RemainingCents returns the stored remaining amount, or total minus deposit
// when none is stored. Never negative.
func (b *Booking) RemainingCents() int64 {
	remaining := b.TotalAmount - b.DepositAmount
	if b.RemainingAmount != nil {
		remaining = *b.RemainingAmount
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DueBooking is a booking joined with the event fields the reminder job needs
type DueBooking struct {
	Booking
	EventTitle       string    `json:"event_title" db:"event_title"`
	EventHonoreeName string    `json:"event_honoree_name" db:"event_honoree_name"`
	EventStartDate   time.Time `json:"event_start_date" db:"event_start_date"`
	EventStatus      string    `json:"event_status" db:"event_status"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
}

// PaymentReminder records that a milestone reminder was attempted for a booking
type PaymentReminder struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	BookingID       uuid.UUID  `json:"booking_id" db:"booking_id"`
	EventID         uuid.UUID  `json:"event_id" db:"event_id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	DaysBeforeEvent int        `json:"days_before_event" db:"days_before_event"`
	ReminderType    string     `json:"reminder_type" db:"reminder_type"`
	NotificationID  *uuid.UUID `json:"notification_id" db:"notification_id"`
	PushSent        bool       `json:"push_sent" db:"push_sent"`
	EmailSent       bool       `json:"email_sent" db:"email_sent"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Notification is an in-app notification row
type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	EventID   *uuid.UUID `json:"event_id" db:"event_id"`
	Type      string     `json:"type" db:"type"`
	Title     string     `json:"title" db:"title"`
	Body      string     `json:"body" db:"body"`
	ActionURL *string    `json:"action_url" db:"action_url"`
	Read      bool       `json:"read" db:"read"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
