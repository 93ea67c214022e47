package reminders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFillsAmount(t *testing.T) {
	for _, m := range Milestones {
		title, body := Message(m.Urgency, "€112.50")
		assert.NotEmpty(t, title)
		assert.Contains(t, body, "€112.50")
		assert.NotContains(t, body, amountPlaceholder)
	}
}

func TestMessagesDifferPerUrgency(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Milestones {
		title, _ := Message(m.Urgency, "€1.00")
		assert.False(t, seen[title], "duplicate title %q", title)
		seen[title] = true
	}
}

func TestRenderEmailFinalWarning(t *testing.T) {
	data := EmailData{
		RecipientName: "Ana",
		EventTitle:    "Weekend in Porto",
		HonoreeName:   "Marta",
		EventDate:     "2026-03-15",
		Amount:        "€112.50",
		Urgency:       UrgencyFinal,
		PaymentURL:    "https://partyplan.app/events/abc/payment",
	}

	subject, html, err := RenderEmail(data)
	require.NoError(t, err)
	assert.Contains(t, subject, "Weekend in Porto")
	assert.Contains(t, html, "€112.50")
	assert.Contains(t, html, "25% deposit")
	assert.Contains(t, html, "https://partyplan.app/events/abc/payment")

	data.Urgency = UrgencyUrgent
	data.DaysRemaining = 2
	_, html, err = RenderEmail(data)
	require.NoError(t, err)
	assert.NotContains(t, html, "25% deposit")
	assert.Contains(t, html, "Days until final notice")
}

func TestRenderEmailEscapesNames(t *testing.T) {
	_, html, err := RenderEmail(EmailData{
		EventTitle: "<script>alert(1)</script>",
		Amount:     "€1.00",
		Urgency:    UrgencyNormal,
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestCancellationMessage(t *testing.T) {
	title, body := CancellationMessage("Weekend in Porto", "€112.50")
	assert.Equal(t, "Event cancelled", title)
	assert.Contains(t, body, "Weekend in Porto")
	assert.Contains(t, body, "€112.50")
	assert.Contains(t, body, "25% deposit")
}
