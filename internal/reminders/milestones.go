package reminders

import "time"

// DateLayout is the date-only format compared against events.start_date
const DateLayout = "2006-01-02"

// Urgency labels, also stored as payment_reminders.reminder_type
const (
	UrgencyNormal   = "normal"
	UrgencyModerate = "moderate"
	UrgencyUrgent   = "urgent"
	UrgencyFinal    = "final"
)

type Milestone struct {
	DaysBefore int
	Urgency    string
}

// Milestones are processed in this order. The final one triggers cancellation.
var Milestones = []Milestone{
	{DaysBefore: 21, Urgency: UrgencyNormal},
	{DaysBefore: 18, Urgency: UrgencyModerate},
	{DaysBefore: 16, Urgency: UrgencyUrgent},
	{DaysBefore: 14, Urgency: UrgencyFinal},
}

func (m Milestone) IsFinal() bool {
	return m.Urgency == UrgencyFinal
}

// DaysRemaining is the number of days left until the final-notice milestone,
// not until the event. It is 0 at the final milestone itself.
func (m Milestone) DaysRemaining() int {
	if m.DaysBefore == 14 {
		return 0
	}
	return m.DaysBefore - 14
}

// TargetDate is the event start date that is m.DaysBefore days after ref,
// in ref's location.
func TargetDate(ref time.Time, m Milestone) string {
	return ref.AddDate(0, 0, m.DaysBefore).Format(DateLayout)
}

type ScheduledMilestone struct {
	Milestone
	TargetDate string
}

// Schedule resolves every milestone against a single reference time
func Schedule(ref time.Time) []ScheduledMilestone {
	out := make([]ScheduledMilestone, 0, len(Milestones))
	for _, m := range Milestones {
		out = append(out, ScheduledMilestone{Milestone: m, TargetDate: TargetDate(ref, m)})
	}
	return out
}
