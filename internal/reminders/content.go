package reminders

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const amountPlaceholder = "{{amount}}"

type content struct {
	Title string
	Body  string
}

var reminderContent = map[string]content{
	UrgencyNormal: {
		Title: "Payment reminder",
		Body:  "Your remaining balance of {{amount}} is due. Complete your payment to keep your celebration on track.",
	},
	UrgencyModerate: {
		Title: "Payment due soon",
		Body:  "Don't forget: {{amount}} is still outstanding for your event. Please complete your payment soon.",
	},
	UrgencyUrgent: {
		Title: "Urgent: payment required",
		Body:  "Your event is getting close and {{amount}} remains unpaid. Pay now to avoid cancellation.",
	},
	UrgencyFinal: {
		Title: "Final notice: payment required",
		Body:  "Final reminder: {{amount}} is still unpaid. Your event will be cancelled if payment is not completed.",
	},
}

const finalEmailWarning = "Because the balance is unpaid at the final deadline, your booking is being cancelled. " +
	"Under our cancellation policy the 25% deposit is retained."

// Message returns the title and body for an urgency with the amount filled in
func Message(urgency, amount string) (title, body string) {
	c, ok := reminderContent[urgency]
	if !ok {
		c = reminderContent[UrgencyNormal]
	}
	return c.Title, strings.ReplaceAll(c.Body, amountPlaceholder, amount)
}

// CancellationMessage is the in-app copy for an event cancelled for non-payment
func CancellationMessage(eventTitle, amount string) (title, body string) {
	return "Event cancelled",
		fmt.Sprintf("%q was cancelled because the remaining balance of %s was not paid by the deadline. "+
			"Only the 25%% deposit is retained under our cancellation policy.", eventTitle, amount)
}

// EmailData feeds the reminder email template
type EmailData struct {
	RecipientName string
	EventTitle    string
	HonoreeName   string
	EventDate     string
	Amount        string
	Urgency       string
	DaysRemaining int
	PaymentURL    string
}

var emailTemplate = template.Must(template.New("payment_reminder").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  {{if .RecipientName}}<p>Hi {{.RecipientName}},</p>{{end}}
  <p>{{.Body}}</p>
  <table cellpadding="4">
    <tr><td>Event</td><td><strong>{{.EventTitle}}</strong></td></tr>
    <tr><td>Celebrating</td><td>{{.HonoreeName}}</td></tr>
    <tr><td>Date</td><td>{{.EventDate}}</td></tr>
    <tr><td>Amount due</td><td><strong>{{.Amount}}</strong></td></tr>
    {{if gt .DaysRemaining 0}}<tr><td>Days until final notice</td><td>{{.DaysRemaining}}</td></tr>{{end}}
  </table>
  {{if .Warning}}<p style="color: #b00020;"><strong>{{.Warning}}</strong></p>{{end}}
  <p><a href="{{.PaymentURL}}">Complete your payment</a></p>
</body>
</html>
`))

// RenderEmail returns the subject and HTML body of a reminder email.
// The final urgency carries the cancellation warning.
func RenderEmail(data EmailData) (subject, html string, err error) {
	title, body := Message(data.Urgency, data.Amount)

	var warning string
	if data.Urgency == UrgencyFinal {
		warning = finalEmailWarning
	}

	var buf bytes.Buffer
	err = emailTemplate.Execute(&buf, struct {
		EmailData
		Title   string
		Body    string
		Warning string
	}{data, title, body, warning})
	if err != nil {
		return "", "", fmt.Errorf("failed to render reminder email: %w", err)
	}

	return fmt.Sprintf("%s: %s", title, data.EventTitle), buf.String(), nil
}
