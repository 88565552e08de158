package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

// DefaultAssignmentWindow is the deadline applied when neither the teacher
// nor the lesson provides one.
const DefaultAssignmentWindow = 36 * time.Hour

// AssignmentService creates and reads assignment records. Mutating the
// lifecycle beyond creation belongs to the submission, grading, game and
// marketplace services.
type AssignmentService interface {
	Assign(ctx context.Context, lessonID, teacherID uint, payload dto.AssignRequest) (dto.AssignResult, error)
	ListForStudent(ctx context.Context, studentID uint, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id, requesterID uint, requesterRole string) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	lessons     repository.LessonRepository
	users       repository.UserRepository
	validator   *validator.Validate
	mail        MailDispatcher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments repository.AssignmentRepository, lessons repository.LessonRepository, users repository.UserRepository, validate *validator.Validate, mail MailDispatcher, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		lessons:     lessons,
		users:       users,
		validator:   validate,
		mail:        mail,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) Assign(ctx context.Context, lessonID, teacherID uint, payload dto.AssignRequest) (dto.AssignResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignResult{}, err
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignResult{}, ErrLessonNotFound
		}
		return dto.AssignResult{}, err
	}

	if lesson.TeacherID != teacherID {
		return dto.AssignResult{}, ErrForbidden
	}

	students, err := s.resolveStudents(ctx, teacherID, payload.StudentIDs)
	if err != nil {
		return dto.AssignResult{}, err
	}

	now := s.now()
	deadline := now.Add(DefaultAssignmentWindow)
	if payload.Deadline != nil {
		deadline = *payload.Deadline
	}

	result := dto.AssignResult{Created: []dto.AssignmentResponse{}, Skipped: []uint{}}
	for _, student := range students {
		exists, err := s.assignments.ExistsByLessonAndStudent(ctx, lesson.ID, student.ID)
		if err != nil {
			return dto.AssignResult{}, err
		}
		if exists {
			result.Skipped = append(result.Skipped, student.ID)
			continue
		}

		assignment := models.Assignment{
			LessonID:         lesson.ID,
			StudentID:        student.ID,
			Status:           models.AssignmentStatusPending,
			Deadline:         deadline,
			OriginalDeadline: deadline,
			StartDate:        now,
		}
		if err := s.assignments.Create(ctx, &assignment); err != nil {
			return dto.AssignResult{}, err
		}

		created, err := s.assignments.GetByID(ctx, assignment.ID)
		if err != nil {
			return dto.AssignResult{}, err
		}
		result.Created = append(result.Created, dto.NewAssignmentResponse(created))

		if payload.Notify || lesson.NotificationMode == models.NotifyModeAssignAndNotify {
			subject := fmt.Sprintf("New lesson assigned: %s", lesson.Title)
			body := fmt.Sprintf("Hi %s,\n\nYour teacher assigned you %q. It is due by %s.\n", student.Name, lesson.Title, deadline.Format(time.RFC1123))
			s.mail.Dispatch(student, &assignment.ID, models.NotificationKindAssigned, subject, body)
		}
	}

	s.logger.Info().
		Uint("lesson_id", lesson.ID).
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Msg("lesson assigned")

	return result, nil
}

// resolveStudents loads the explicit student list, falling back to every
// student attached to the teacher when none is given. Students belonging to
// a different teacher are rejected rather than silently skipped.
func (s *assignmentService) resolveStudents(ctx context.Context, teacherID uint, studentIDs []uint) ([]models.User, error) {
	if len(studentIDs) == 0 {
		return s.users.ListStudentsByTeacher(ctx, teacherID)
	}

	students := make([]models.User, 0, len(studentIDs))
	for _, id := range studentIDs {
		student, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("student %d not found", id)
			}
			return nil, err
		}
		if student.Role != models.RoleStudent || student.TeacherID == nil || *student.TeacherID != teacherID {
			return nil, ErrForbidden
		}
		students = append(students, student)
	}

	return students, nil
}

func (s *assignmentService) ListForStudent(ctx context.Context, studentID uint, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{
		LessonID:  filter.LessonID,
		StudentID: &studentID,
		Status:    filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) ListForTeacher(ctx context.Context, teacherID uint, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{
		LessonID:  filter.LessonID,
		TeacherID: &teacherID,
		Status:    filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Get(ctx context.Context, id, requesterID uint, requesterRole string) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	switch requesterRole {
	case models.RoleStudent:
		if assignment.StudentID != requesterID {
			return dto.AssignmentResponse{}, ErrForbidden
		}
	case models.RoleTeacher:
		if assignment.Lesson.TeacherID != requesterID {
			return dto.AssignmentResponse{}, ErrForbidden
		}
	}

	return dto.NewAssignmentResponse(assignment), nil
}
