package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

// ReminderWindow is how far ahead of the deadline the reminder run looks.
const ReminderWindow = 24 * time.Hour

// NotifierService hosts the scheduled maintenance passes. Each run is
// idempotent: failing an assignment flips its status, reminders are deduped
// through the notification log, and auto-assign skips students that already
// hold the lesson.
type NotifierService interface {
	FailOverdue(ctx context.Context) (int, error)
	Remind(ctx context.Context) (int, error)
	AutoAssign(ctx context.Context) (int, error)
}

type notifierService struct {
	assignments repository.AssignmentRepository
	lessons     repository.LessonRepository
	logs        repository.NotificationLogRepository
	assigner    AssignmentService
	mail        MailDispatcher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewNotifierService constructs a NotifierService instance.
func NewNotifierService(assignments repository.AssignmentRepository, lessons repository.LessonRepository, logs repository.NotificationLogRepository, assigner AssignmentService, mail MailDispatcher, logger zerolog.Logger) NotifierService {
	return &notifierService{
		assignments: assignments,
		lessons:     lessons,
		logs:        logs,
		assigner:    assigner,
		mail:        mail,
		logger:      logger.With().Str("component", "notifier_service").Logger(),
		now:         time.Now,
	}
}

// FailOverdue marks every past-due pending assignment FAILED and tells the
// student. No points are deducted; the lost opportunity is the penalty.
func (s *notifierService) FailOverdue(ctx context.Context) (int, error) {
	overdue, err := s.assignments.ListPendingPastDue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, assignment := range overdue {
		assignment.Status = models.AssignmentStatusFailed
		if err := s.assignments.Update(ctx, &assignment); err != nil {
			s.logger.Error().Err(err).Uint("assignment_id", assignment.ID).Msg("failed to mark assignment overdue")
			continue
		}
		failed++

		subject := fmt.Sprintf("Assignment missed: %s", assignment.Lesson.Title)
		body := fmt.Sprintf("Hi %s,\n\nThe deadline for %q has passed. You can buy it back in the marketplace with your savings.\n", assignment.Student.Name, assignment.Lesson.Title)
		s.mail.DispatchSync(ctx, assignment.Student, &assignment.ID, models.NotificationKindFailed, subject, body)
	}

	if failed > 0 {
		s.logger.Info().Int("failed", failed).Msg("overdue assignments marked failed")
	}

	return failed, nil
}

// Remind emails students whose pending assignments are due within the
// reminder window. The notification log keeps repeated runs from mailing the
// same assignment twice.
func (s *notifierService) Remind(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.assignments.ListPendingDueWithin(ctx, now, now.Add(ReminderWindow))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, assignment := range due {
		already, err := s.logs.ExistsByAssignmentAndKind(ctx, assignment.ID, models.NotificationKindReminder)
		if err != nil {
			return sent, err
		}
		if already {
			continue
		}

		subject := fmt.Sprintf("Reminder: %s is due soon", assignment.Lesson.Title)
		body := fmt.Sprintf("Hi %s,\n\n%q is due by %s. Finish it before the deadline to earn your points.\n", assignment.Student.Name, assignment.Lesson.Title, assignment.Deadline.Format(time.RFC1123))
		s.mail.DispatchSync(ctx, assignment.Student, &assignment.ID, models.NotificationKindReminder, subject, body)
		sent++
	}

	if sent > 0 {
		s.logger.Info().Int("sent", sent).Msg("deadline reminders dispatched")
	}

	return sent, nil
}

// AutoAssign hands out lessons whose scheduled assignment date has arrived.
// Assign already skips students who hold the lesson, so repeated runs only
// top up students added since the last pass.
func (s *notifierService) AutoAssign(ctx context.Context) (int, error) {
	lessons, err := s.lessons.ListDueForAutoAssign(ctx, s.now())
	if err != nil {
		return 0, err
	}

	created := 0
	for _, lesson := range lessons {
		result, err := s.assigner.Assign(ctx, lesson.ID, lesson.TeacherID, dto.AssignRequest{Notify: true})
		if err != nil {
			s.logger.Error().Err(err).Uint("lesson_id", lesson.ID).Msg("auto-assign failed")
			continue
		}
		created += len(result.Created)
	}

	if created > 0 {
		s.logger.Info().Int("created", created).Msg("scheduled lessons assigned")
	}

	return created, nil
}
