package reminders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	apperrors "partyplan/internal/errors"
	"partyplan/internal/external"
	"partyplan/internal/models"

	"github.com/google/uuid"
)

type reminderKey struct {
	bookingID uuid.UUID
	days      int
}

// memStore is an in-memory data store enforcing the same predicate and
// unique key as the Postgres schema.
type memStore struct {
	mu            sync.Mutex
	events        map[uuid.UUID]*models.Event
	bookings      map[uuid.UUID]*models.Booking
	profiles      map[uuid.UUID]*models.Profile
	reminders     map[reminderKey]*models.PaymentReminder
	notifications []*models.Notification
	calls         *callLog

	cancelCalls       int
	listErrFor        map[string]error
	reminderCreateErr error
	cancelErr         error
	notificationErr   error
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, name)
}

func (c *callLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func newMemStore() *memStore {
	return &memStore{
		events:     map[uuid.UUID]*models.Event{},
		bookings:   map[uuid.UUID]*models.Booking{},
		profiles:   map[uuid.UUID]*models.Profile{},
		reminders:  map[reminderKey]*models.PaymentReminder{},
		listErrFor: map[string]error{},
		calls:      &callLog{},
	}
}

func (s *memStore) addBooking(startDate string, status string, total, deposit int64, fullyPaid bool) (*models.Booking, *models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, err := time.ParseInLocation(DateLayout, startDate, time.Local)
	if err != nil {
		panic(err)
	}
	userID := uuid.New()
	if _, ok := s.profiles[userID]; !ok {
		email := "planner@example.com"
		s.profiles[userID] = &models.Profile{ID: userID, Email: &email}
	}
	event := &models.Event{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "Weekend in Porto",
		HonoreeName: "Marta",
		StartDate:   start,
		Status:      status,
	}
	paidAt := time.Now().Add(-30 * 24 * time.Hour)
	booking := &models.Booking{
		ID:            uuid.New(),
		EventID:       event.ID,
		TotalAmount:   total,
		DepositAmount: deposit,
		DepositPaidAt: &paidAt,
	}
	if fullyPaid {
		now := time.Now()
		booking.FullyPaidAt = &now
	}
	s.events[event.ID] = event
	s.bookings[booking.ID] = booking
	return booking, event
}

func (s *memStore) ListDueForReminder(_ context.Context, targetDate string) ([]models.DueBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.add("select:" + targetDate)

	if err := s.listErrFor[targetDate]; err != nil {
		return nil, err
	}

	var out []models.DueBooking
	for _, b := range s.bookings {
		e := s.events[b.EventID]
		if b.DepositPaidAt == nil || b.FullyPaidAt != nil {
			continue
		}
		if e.StartDate.Format(DateLayout) != targetDate {
			continue
		}
		if e.Status != models.EventStatusBooked && e.Status != models.EventStatusPlanning {
			continue
		}
		out = append(out, models.DueBooking{
			Booking:          *b,
			EventTitle:       e.Title,
			EventHonoreeName: e.HonoreeName,
			EventStartDate:   e.StartDate,
			EventStatus:      e.Status,
			UserID:           e.UserID,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *memStore) IsFullyPaid(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return false, errors.New("booking not found")
	}
	return b.FullyPaidAt != nil, nil
}

func (s *memStore) Cancel(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelCalls++
	s.calls.add("cancel")
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.events[id].Status = models.EventStatusCancelled
	return nil
}

func (s *memStore) Create(_ context.Context, r *models.PaymentReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reminderCreateErr != nil {
		return s.reminderCreateErr
	}
	key := reminderKey{r.BookingID, r.DaysBeforeEvent}
	if _, ok := s.reminders[key]; ok {
		return apperrors.ErrReminderExists
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	stored := *r
	s.reminders[key] = &stored
	return nil
}

func (s *memStore) reminderByID(id uuid.UUID) *models.PaymentReminder {
	for _, r := range s.reminders {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *memStore) SetNotification(_ context.Context, id, notificationID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.reminderByID(id)
	if r == nil {
		return errors.New("reminder not found")
	}
	r.NotificationID = &notificationID
	return nil
}

func (s *memStore) UpdateChannels(_ context.Context, id uuid.UUID, pushSent, emailSent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.add("update_channels")
	r := s.reminderByID(id)
	if r == nil {
		return errors.New("reminder not found")
	}
	r.PushSent = pushSent
	r.EmailSent = emailSent
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[id], nil
}

func (s *memStore) reminderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reminders)
}

func (s *memStore) notificationsFor(eventID uuid.UUID) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.EventID != nil && *n.EventID == eventID {
			out = append(out, n)
		}
	}
	return out
}

// notificationRepo shares the store but satisfies NotificationStore, whose
// Create signature clashes with ReminderStore.
type notificationRepo struct{ s *memStore }

func (n notificationRepo) Create(_ context.Context, notification *models.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	n.s.calls.add("notification:" + notification.Type)
	if n.s.notificationErr != nil {
		return n.s.notificationErr
	}
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	n.s.notifications = append(n.s.notifications, notification)
	return nil
}

type fakePush struct {
	mu       sync.Mutex
	calls    *callLog
	err      error
	requests []external.PushRequest
}

func (p *fakePush) Send(_ context.Context, req external.PushRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls.add("push")
	p.requests = append(p.requests, req)
	return p.err
}

type fakeEmail struct {
	mu     sync.Mutex
	calls  *callLog
	fail   bool
	emails []external.Email
}

func (e *fakeEmail) Send(_ context.Context, email external.Email) external.EmailResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls.add("email")
	e.emails = append(e.emails, email)
	if e.fail {
		return external.EmailResult{Error: "smtp unavailable"}
	}
	return external.EmailResult{Success: true, MessageID: "<msg@partyplan.app>"}
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *fakePublisher) Publish(subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

type harness struct {
	store     *memStore
	push      *fakePush
	email     *fakeEmail
	publisher *fakePublisher
}

func newHarness() *harness {
	s := newMemStore()
	return &harness{
		store:     s,
		push:      &fakePush{calls: s.calls},
		email:     &fakeEmail{calls: s.calls},
		publisher: &fakePublisher{},
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Bookings:      h.store,
		Events:        h.store,
		Reminders:     h.store,
		Notifications: notificationRepo{h.store},
		Profiles:      h.store,
		Push:          h.push,
		Email:         h.email,
		Publisher:     h.publisher,
	}
}

func (h *harness) job(ref time.Time, concurrency int) *Job {
	return NewJob(h.deps(), Options{
		Concurrency: concurrency,
		AppURL:      "https://partyplan.app",
		Now:         func() time.Time { return ref },
	})
}
