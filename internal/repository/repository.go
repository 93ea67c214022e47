package repository

import (
	"partyplan/internal/database"
)

type Repositories struct {
	Bookings      *BookingRepository
	Events        *EventRepository
	Profiles      *ProfileRepository
	Reminders     *ReminderRepository
	Notifications *NotificationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Bookings:      NewBookingRepository(db),
		Events:        NewEventRepository(db),
		Profiles:      NewProfileRepository(db),
		Reminders:     NewReminderRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
