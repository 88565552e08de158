package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
	"github.com/lessonhub/lessonhub-api/pkg/mailer"
)

// MailDispatcher sends transactional email fire-and-forget and records every
// attempt in the notification log. A failed send never affects the caller's
// transaction; it only flips the log row to "failed".
type MailDispatcher interface {
	Dispatch(user models.User, assignmentID *uint, kind, subject, body string)
	DispatchSync(ctx context.Context, user models.User, assignmentID *uint, kind, subject, body string)
}

type mailDispatcher struct {
	mail   mailer.Mailer
	logs   repository.NotificationLogRepository
	logger zerolog.Logger
}

// NewMailDispatcher constructs the dispatcher.
func NewMailDispatcher(mail mailer.Mailer, logs repository.NotificationLogRepository, logger zerolog.Logger) MailDispatcher {
	return &mailDispatcher{
		mail:   mail,
		logs:   logs,
		logger: logger.With().Str("component", "mail_dispatcher").Logger(),
	}
}

// Dispatch sends in the background; request handlers use this so the HTTP
// response never waits on the mail provider.
func (d *mailDispatcher) Dispatch(user models.User, assignmentID *uint, kind, subject, body string) {
	go d.DispatchSync(context.Background(), user, assignmentID, kind, subject, body)
}

// DispatchSync sends inline. The scheduled notifier uses this so its
// idempotency reads observe the log rows of the previous run.
func (d *mailDispatcher) DispatchSync(ctx context.Context, user models.User, assignmentID *uint, kind, subject, body string) {
	status := models.NotificationStatusSent
	if err := d.mail.Send(ctx, mailer.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   subject,
		TextBody:  body,
	}); err != nil {
		status = models.NotificationStatusFailed
		d.logger.Warn().Err(err).Str("kind", kind).Str("recipient", user.Email).Msg("email delivery failed")
	}

	entry := models.NotificationLog{
		UserID:       user.ID,
		AssignmentID: assignmentID,
		Kind:         kind,
		Recipient:    user.Email,
		Subject:      subject,
		Status:       status,
	}
	if err := d.logs.Create(ctx, &entry); err != nil {
		d.logger.Error().Err(err).Str("kind", kind).Msg("failed to record notification log")
	}
}
