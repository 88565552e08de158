package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

// GradingService applies a teacher's grade and pays out the reward. The
// assignment update and the ledger entry share one transaction so a grade
// can never exist without its points or the other way round.
type GradingService interface {
	Grade(ctx context.Context, assignmentID, teacherID uint, payload dto.GradeRequest) (dto.AssignmentResponse, error)
}

type gradingService struct {
	db          *gorm.DB
	assignments repository.AssignmentRepository
	ledger      LedgerService
	mail        MailDispatcher
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs a GradingService instance.
func NewGradingService(db *gorm.DB, assignments repository.AssignmentRepository, ledger LedgerService, mail MailDispatcher, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		db:          db,
		assignments: assignments,
		ledger:      ledger,
		mail:        mail,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, assignmentID, teacherID uint, payload dto.GradeRequest) (dto.AssignmentResponse, error) {
	ctx, span := otel.Tracer("grading").Start(ctx, "GradingService.Grade")
	defer span.End()
	span.SetAttributes(attribute.Int("assignment.id", int(assignmentID)))

	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if assignment.Lesson.TeacherID != teacherID {
		return dto.AssignmentResponse{}, ErrForbidden
	}

	if !assignment.CanTransition(models.AssignmentStatusGraded) {
		return dto.AssignmentResponse{}, ErrNotGradable
	}

	score := payload.Score
	points := int(math.Round(score)) + payload.ExtraPoints
	euros := assignment.Lesson.Price * score / 100

	gradedAt := s.now()
	assignment.Status = models.AssignmentStatusGraded
	assignment.Score = &score
	assignment.TeacherComments = s.sanitizer.Sanitize(payload.TeacherComments)
	assignment.PointsAwarded = points
	assignment.ExtraPoints = payload.ExtraPoints
	assignment.GradedAt = &gradedAt

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.assignments.WithTx(tx).Update(ctx, &assignment); err != nil {
			return err
		}

		_, err := s.ledger.RecordReward(ctx, tx, &models.PointTransaction{
			UserID:       assignment.StudentID,
			AssignmentID: &assignment.ID,
			Points:       points,
			AmountEuro:   euros,
			Reason:       models.ReasonAssignmentGraded,
			Note:         fmt.Sprintf("score:%.0f", score),
		})
		return err
	})
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	subject := fmt.Sprintf("Your assignment %q was graded", assignment.Lesson.Title)
	body := fmt.Sprintf("Hi %s,\n\nYou scored %.0f%% on %q and earned %d points.\n", assignment.Student.Name, score, assignment.Lesson.Title, points)
	s.mail.Dispatch(assignment.Student, &assignment.ID, models.NotificationKindGraded, subject, body)

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Float64("score", score).
		Int("points", points).
		Msg("assignment graded")

	return dto.NewAssignmentResponse(assignment), nil
}
