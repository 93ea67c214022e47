package external

import (
	"context"
	"fmt"

	apperrors "partyplan/internal/errors"
	"partyplan/internal/logger"

	"github.com/wneessen/go-mail"
)

type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	RatePerSec float64
	AppURL     string
}

// Email is one outgoing HTML message
type Email struct {
	To      string
	Subject string
	HTML    string
}

// EmailResult mirrors the email service contract: failures are reported, never raised.
type EmailResult struct {
	Success   bool
	MessageID string
	Error     string
}

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type EmailClient struct {
	sender   mailSender
	from     string
	fromName string
}

// NewEmailClient returns a client that reports every send as failed when
// no SMTP host is configured.
func NewEmailClient(cfg EmailConfig) *EmailClient {
	ec := &EmailClient{from: cfg.From, fromName: cfg.FromName}
	if cfg.Host == "" {
		logger.Get().Warn().Msg("SMTP_HOST not set, reminder emails are disabled")
		return ec
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Could not initialize smtp client")
		return ec
	}
	ec.sender = c
	return ec
}

func (ec *EmailClient) Send(ctx context.Context, email Email) EmailResult {
	if ec.sender == nil {
		return EmailResult{Error: apperrors.ErrEmailNotConfigured.Error()}
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(ec.fromName, ec.from); err != nil {
		return EmailResult{Error: fmt.Sprintf("invalid from address: %v", err)}
	}
	if err := msg.To(email.To); err != nil {
		return EmailResult{Error: fmt.Sprintf("invalid to address: %v", err)}
	}
	msg.Subject(email.Subject)
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)

	if err := ec.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return EmailResult{Error: err.Error()}
	}

	return EmailResult{Success: true, MessageID: msg.GetMessageID()}
}
