// Package mailer sends transactional email through SendGrid. Delivery is
// best-effort; callers must never let a failed send roll back database work.
package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Mailer abstracts the delivery channel.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	key    string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGrid constructs a SendGrid-backed mailer.
func NewSendGrid(apiKey, fromName, fromAddress string, logger zerolog.Logger) (*SendGrid, error) {
	if apiKey == "" || fromAddress == "" {
		return nil, fmt.Errorf("sendgrid api key and from address must be provided")
	}

	return &SendGrid{
		key:    apiKey,
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger.With().Str("component", "sendgrid").Logger(),
	}, nil
}

// Send delivers one message synchronously.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)

	htmlBody := msg.HTMLBody
	if htmlBody == "" {
		htmlBody = msg.TextBody
	}

	mail := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.TextBody, htmlBody)

	req := sendgrid.GetRequest(s.key, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(mail)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d", res.StatusCode)
	}

	s.logger.Debug().Str("to", msg.ToAddress).Str("subject", msg.Subject).Msg("email sent")

	return nil
}

// Noop discards all messages. Used in development and tests.
type Noop struct{}

// Send implements Mailer without delivering anything.
func (Noop) Send(context.Context, Message) error { return nil }
