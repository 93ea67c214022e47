package reminders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "partyplan/internal/errors"
	"partyplan/internal/logger"
	"partyplan/internal/metrics"
	"partyplan/internal/models"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type BookingStore interface {
	ListDueForReminder(ctx context.Context, targetDate string) ([]models.DueBooking, error)
	IsFullyPaid(ctx context.Context, id uuid.UUID) (bool, error)
}

type EventStore interface {
	Cancel(ctx context.Context, id uuid.UUID) error
}

// ReminderStore persists payment_reminders. Create returns
// errors.ErrReminderExists when the milestone was already recorded.
type ReminderStore interface {
	Create(ctx context.Context, reminder *models.PaymentReminder) error
	SetNotification(ctx context.Context, id, notificationID uuid.UUID) error
	UpdateChannels(ctx context.Context, id uuid.UUID, pushSent, emailSent bool) error
}

type Publisher interface {
	Publish(subject string, data any) error
}

type ReportIndexer interface {
	IndexRunReport(ctx context.Context, report *models.RunReport) error
}

// Deps are the collaborators of a reminder run. Publisher and Indexer are optional.
type Deps struct {
	Bookings      BookingStore
	Events        EventStore
	Reminders     ReminderStore
	Notifications NotificationStore
	Profiles      ProfileStore
	Push          PushSender
	Email         EmailSender
	Publisher     Publisher
	Indexer       ReportIndexer
}

func (d Deps) missing() []string {
	var names []string
	if d.Bookings == nil {
		names = append(names, "bookings")
	}
	if d.Events == nil {
		names = append(names, "events")
	}
	if d.Reminders == nil {
		names = append(names, "payment reminders")
	}
	if d.Notifications == nil {
		names = append(names, "notifications")
	}
	if d.Profiles == nil {
		names = append(names, "profiles")
	}
	if d.Push == nil {
		names = append(names, "push")
	}
	if d.Email == nil {
		names = append(names, "email")
	}
	return names
}

type Options struct {
	// Concurrency bounds bookings processed in parallel within a milestone
	Concurrency     int
	EmailRatePerSec float64
	AppURL          string
	// ConfigErr, when set, fails every run before any milestone is processed
	ConfigErr error
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

type Job struct {
	deps       Deps
	opts       Options
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewJob(deps Deps, opts Options) *Job {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Job{
		deps:       deps,
		opts:       opts,
		dispatcher: NewDispatcher(deps, m, opts.EmailRatePerSec, opts.AppURL),
		metrics:    m,
		now:        now,
	}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeProcessed
	outcomeFailed
	// reminder dispatched but the cancellation step failed
	outcomeProcessedWithError
)

// Run processes every milestone once against a single reference time.
// Only configuration problems are returned; per-milestone and per-booking
// failures are counted in the report.
func (j *Job) Run(ctx context.Context, trigger string) (*models.RunReport, error) {
	if err := j.checkConfig(); err != nil {
		j.metrics.RunsTotal.WithLabelValues("config_error").Inc()
		return nil, err
	}

	runID := logger.NewRunID()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := logger.WithContext(ctx)

	started := time.Now()
	ref := j.now()
	report := &models.RunReport{
		RunID:     runID,
		Trigger:   trigger,
		StartedAt: started,
		Results:   make([]models.MilestoneResult, 0, len(Milestones)),
	}
	log.Info().Str("trigger", trigger).Str("reference_date", ref.Format(DateLayout)).Msg("Payment reminder run started")

	for _, sm := range Schedule(ref) {
		result := j.runMilestone(ctx, sm)
		report.Results = append(report.Results, result)
		report.Processed += result.Processed
		report.Errors += result.Errors
	}

	report.FinishedAt = time.Now()
	elapsed := report.FinishedAt.Sub(started)
	report.DurationMs = elapsed.Milliseconds()
	j.metrics.RunDuration.Observe(elapsed.Seconds())
	j.metrics.RunsTotal.WithLabelValues("completed").Inc()

	log.Info().
		Int("processed", report.Processed).
		Int("errors", report.Errors).
		Int64("duration_ms", report.DurationMs).
		Msg("Payment reminder run completed")

	if j.deps.Indexer != nil {
		if err := j.deps.Indexer.IndexRunReport(ctx, report); err != nil {
			log.Warn().Err(err).Msg("Failed to index run report")
		}
	}

	return report, nil
}

func (j *Job) checkConfig() error {
	if j.opts.ConfigErr != nil {
		if errors.Is(j.opts.ConfigErr, apperrors.ErrMissingConfig) {
			return j.opts.ConfigErr
		}
		return fmt.Errorf("%w: %v", apperrors.ErrMissingConfig, j.opts.ConfigErr)
	}
	if missing := j.deps.missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func (j *Job) runMilestone(ctx context.Context, sm ScheduledMilestone) models.MilestoneResult {
	result := models.MilestoneResult{Milestone: sm.DaysBefore}
	label := strconv.Itoa(sm.DaysBefore)
	log := logger.WithContext(ctx).With().
		Int("milestone", sm.DaysBefore).
		Str("target_date", sm.TargetDate).
		Logger()

	bookings, err := j.deps.Bookings.ListDueForReminder(ctx, sm.TargetDate)
	if err != nil {
		log.Error().Err(err).Msg("Failed to select bookings for milestone")
		result.Errors++
		j.metrics.MilestoneErrors.WithLabelValues(label).Inc()
		return result
	}
	if len(bookings) == 0 {
		log.Debug().Msg("No bookings due")
		return result
	}

	outcomes := make([]outcome, len(bookings))
	if j.opts.Concurrency == 1 {
		for i := range bookings {
			outcomes[i] = j.processBooking(ctx, sm.Milestone, &bookings[i])
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(j.opts.Concurrency)
		for i := range bookings {
			i := i
			g.Go(func() error {
				outcomes[i] = j.processBooking(gctx, sm.Milestone, &bookings[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, o := range outcomes {
		switch o {
		case outcomeProcessed:
			result.Processed++
		case outcomeProcessedWithError:
			result.Processed++
			result.Errors++
			result.FailedBookingIDs = append(result.FailedBookingIDs, bookings[i].ID.String())
		case outcomeFailed:
			result.Errors++
			result.FailedBookingIDs = append(result.FailedBookingIDs, bookings[i].ID.String())
		}
	}
	if result.Errors > 0 {
		j.metrics.MilestoneErrors.WithLabelValues(label).Add(float64(result.Errors))
	}

	log.Info().
		Int("selected", len(bookings)).
		Int("processed", result.Processed).
		Int("errors", result.Errors).
		Msg("Milestone processed")
	return result
}

func (j *Job) processBooking(ctx context.Context, m Milestone, b *models.DueBooking) outcome {
	label := strconv.Itoa(m.DaysBefore)
	log := logger.WithContext(ctx).With().
		Str("booking_id", b.ID.String()).
		Str("event_id", b.EventID.String()).
		Int("milestone", m.DaysBefore).
		Logger()

	reminder := &models.PaymentReminder{
		BookingID:       b.ID,
		EventID:         b.EventID,
		UserID:          b.UserID,
		DaysBeforeEvent: m.DaysBefore,
		ReminderType:    m.Urgency,
	}
	if err := j.deps.Reminders.Create(ctx, reminder); err != nil {
		if errors.Is(err, apperrors.ErrReminderExists) {
			log.Info().Msg("Reminder already sent for milestone, skipping")
			j.metrics.GuardConflicts.WithLabelValues(label).Inc()
			return outcomeSkipped
		}
		log.Error().Err(err).Msg("Failed to record reminder")
		return outcomeFailed
	}

	res := j.dispatcher.Dispatch(ctx, m, b, reminder)
	j.metrics.RemindersSent.WithLabelValues(label).Inc()
	j.publish(ctx, models.EventPaymentReminderSent, models.PaymentReminderSentEvent{
		ReminderID:      reminder.ID,
		BookingID:       b.ID,
		EventID:         b.EventID,
		UserID:          b.UserID,
		DaysBeforeEvent: m.DaysBefore,
		ReminderType:    m.Urgency,
		PushSent:        res.PushSent,
		EmailSent:       res.EmailSent,
		Timestamp:       time.Now(),
	})

	if !m.IsFinal() {
		return outcomeProcessed
	}
	if err := j.cancelUnpaid(ctx, b); err != nil {
		log.Error().Err(err).Msg("Auto-cancellation failed")
		return outcomeProcessedWithError
	}
	return outcomeProcessed
}

// cancelUnpaid cancels the event of a booking still unpaid at the final
// milestone and notifies the owner. The notification is only sent once the
// status change has been stored.
func (j *Job) cancelUnpaid(ctx context.Context, b *models.DueBooking) error {
	log := logger.WithContext(ctx).With().
		Str("booking_id", b.ID.String()).
		Str("event_id", b.EventID.String()).
		Logger()

	paid, err := j.deps.Bookings.IsFullyPaid(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("payment re-check: %w", err)
	}
	if paid {
		log.Info().Msg("Booking paid before cancellation, event kept")
		return nil
	}

	if err := j.deps.Events.Cancel(ctx, b.EventID); err != nil {
		return err
	}
	j.metrics.Cancellations.Inc()
	log.Warn().Msg("Event cancelled for non-payment")

	amount := FormatEuros(b.RemainingCents())
	title, body := CancellationMessage(b.EventTitle, amount)
	actionURL := fmt.Sprintf("/events/%s", b.EventID)
	eventID := b.EventID
	err = j.deps.Notifications.Create(ctx, &models.Notification{
		UserID:    b.UserID,
		EventID:   &eventID,
		Type:      models.NotificationEventCancelledNonpayment,
		Title:     title,
		Body:      body,
		ActionURL: &actionURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Cancellation notification failed")
	}

	j.publish(ctx, models.EventEventCancelledNonpayment, models.EventCancelledNonpaymentEvent{
		BookingID:      b.ID,
		EventID:        b.EventID,
		UserID:         b.UserID,
		RemainingCents: b.RemainingCents(),
		Timestamp:      time.Now(),
	})
	return nil
}

func (j *Job) publish(ctx context.Context, subject string, event any) {
	if j.deps.Publisher == nil {
		return
	}
	if err := j.deps.Publisher.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("subject", subject).Msg("Failed to publish event")
	}
}
