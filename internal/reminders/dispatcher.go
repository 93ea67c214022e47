package reminders

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"partyplan/internal/external"
	"partyplan/internal/logger"
	"partyplan/internal/metrics"
	"partyplan/internal/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type PushSender interface {
	Send(ctx context.Context, req external.PushRequest) error
}

type EmailSender interface {
	Send(ctx context.Context, email external.Email) external.EmailResult
}

// Dispatcher delivers one reminder over the in-app, push and email channels.
// Channel failures are logged and recorded, never returned.
type Dispatcher struct {
	notifications NotificationStore
	reminders     ReminderStore
	profiles      ProfileStore
	push          PushSender
	email         EmailSender
	limiter       *rate.Limiter
	metrics       *metrics.Metrics
	appURL        string
}

// DispatchResult is what the reminder row is updated with
type DispatchResult struct {
	NotificationID *uuid.UUID
	PushSent       bool
	EmailSent      bool
}

func NewDispatcher(deps Deps, m *metrics.Metrics, emailRatePerSec float64, appURL string) *Dispatcher {
	limit := rate.Inf
	if emailRatePerSec > 0 {
		limit = rate.Limit(emailRatePerSec)
	}

	return &Dispatcher{
		notifications: deps.Notifications,
		reminders:     deps.Reminders,
		profiles:      deps.Profiles,
		push:          deps.Push,
		email:         deps.Email,
		limiter:       rate.NewLimiter(limit, 1),
		metrics:       m,
		appURL:        strings.TrimRight(appURL, "/"),
	}
}

func paymentPath(eventID uuid.UUID) string {
	return fmt.Sprintf("/events/%s/payment", eventID)
}

// Dispatch sends the reminder for a booking that passed the idempotency
// guard. The in-app notification always goes first and the reminder row is
// always updated with the push and email outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, m Milestone, b *models.DueBooking, reminder *models.PaymentReminder) DispatchResult {
	log := logger.WithContext(ctx).With().
		Str("booking_id", b.ID.String()).
		Int("milestone", m.DaysBefore).
		Logger()

	amount := FormatEuros(b.RemainingCents())
	title, body := Message(m.Urgency, amount)
	var result DispatchResult

	// In-app
	actionURL := paymentPath(b.EventID)
	eventID := b.EventID
	notification := &models.Notification{
		UserID:    b.UserID,
		EventID:   &eventID,
		Type:      models.NotificationPaymentReminder,
		Title:     title,
		Body:      body,
		ActionURL: &actionURL,
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		log.Warn().Err(err).Msg("In-app reminder notification failed")
		d.metrics.ChannelFailures.WithLabelValues("in_app").Inc()
	} else {
		result.NotificationID = &notification.ID
		reminder.NotificationID = &notification.ID
		if err := d.reminders.SetNotification(ctx, reminder.ID, notification.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to link notification to reminder")
		}
	}

	// Push
	err := d.push.Send(ctx, external.PushRequest{
		UserIDs: []string{b.UserID.String()},
		Notification: external.PushNotification{
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":       models.NotificationPaymentReminder,
				"eventId":    b.EventID.String(),
				"bookingId":  b.ID.String(),
				"daysBefore": strconv.Itoa(m.DaysBefore),
				"url":        actionURL,
			},
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("Push reminder failed")
		d.metrics.ChannelFailures.WithLabelValues("push").Inc()
	} else {
		result.PushSent = true
	}

	// Email
	result.EmailSent = d.sendEmail(ctx, m, b, amount)

	reminder.PushSent = result.PushSent
	reminder.EmailSent = result.EmailSent
	if err := d.reminders.UpdateChannels(ctx, reminder.ID, result.PushSent, result.EmailSent); err != nil {
		log.Error().Err(err).Msg("Failed to record reminder channel outcomes")
	}

	return result
}

func (d *Dispatcher) sendEmail(ctx context.Context, m Milestone, b *models.DueBooking, amount string) bool {
	log := logger.WithContext(ctx).With().
		Str("booking_id", b.ID.String()).
		Int("milestone", m.DaysBefore).
		Logger()

	profile, err := d.profiles.GetByID(ctx, b.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load profile for reminder email")
		d.metrics.ChannelFailures.WithLabelValues("email").Inc()
		return false
	}
	if !profile.WantsEmail() {
		log.Debug().Msg("Reminder email skipped, opted out or no address")
		return false
	}

	subject, html, err := RenderEmail(EmailData{
		RecipientName: profile.DisplayName(),
		EventTitle:    b.EventTitle,
		HonoreeName:   b.EventHonoreeName,
		EventDate:     b.EventStartDate.Format(DateLayout),
		Amount:        amount,
		Urgency:       m.Urgency,
		DaysRemaining: m.DaysRemaining(),
		PaymentURL:    d.appURL + paymentPath(b.EventID),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Reminder email not rendered")
		d.metrics.ChannelFailures.WithLabelValues("email").Inc()
		return false
	}

	if err := d.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("Reminder email not sent")
		d.metrics.ChannelFailures.WithLabelValues("email").Inc()
		return false
	}

	res := d.email.Send(ctx, external.Email{To: *profile.Email, Subject: subject, HTML: html})
	if !res.Success {
		log.Warn().Str("error", res.Error).Msg("Reminder email failed")
		d.metrics.ChannelFailures.WithLabelValues("email").Inc()
		return false
	}

	log.Debug().Str("message_id", res.MessageID).Msg("Reminder email sent")
	return true
}
