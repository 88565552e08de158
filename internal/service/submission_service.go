package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/observability"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

// SubmissionService dispatches student submissions to the lesson-type
// specific handler. Every variant shares the same preflight: the assignment
// must belong to the student, be PENDING, and not be past its deadline.
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID, studentID uint, payload json.RawMessage) (dto.SubmitResult, error)
}

type submissionService struct {
	db          *gorm.DB
	assignments repository.AssignmentRepository
	attempts    repository.LyricAttemptRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(db *gorm.DB, assignments repository.AssignmentRepository, attempts repository.LyricAttemptRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		db:          db,
		assignments: assignments,
		attempts:    attempts,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, assignmentID, studentID uint, payload json.RawMessage) (dto.SubmitResult, error) {
	assignment, err := s.loadPendingAssignment(ctx, assignmentID, studentID)
	if err != nil {
		return dto.SubmitResult{}, err
	}

	var result dto.SubmitResult
	switch assignment.Lesson.Type {
	case models.LessonTypeStandard, models.LessonTypeMultiChoice:
		result, err = s.submitAnswerMap(ctx, assignment, payload)
	case models.LessonTypeFlashcard:
		result, err = s.submitFlashcards(ctx, assignment, payload)
	case models.LessonTypeComposer:
		result, err = s.submitComposer(ctx, assignment, payload)
	case models.LessonTypeLearningSession:
		result, err = s.submitLearningSession(ctx, assignment, payload)
	case models.LessonTypeLyric:
		result, err = s.submitLyric(ctx, assignment, payload)
	case models.LessonTypeArkaning, models.LessonTypeFlipper, models.LessonTypeNewsArticle:
		result, err = s.submitGameFinal(ctx, assignment, payload)
	default:
		return dto.SubmitResult{}, fmt.Errorf("unknown lesson type %q", assignment.Lesson.Type)
	}

	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	observability.Submissions().WithLabelValues(string(assignment.Lesson.Type), outcome).Inc()

	return result, err
}

// loadPendingAssignment performs the shared preflight checks.
func (s *submissionService) loadPendingAssignment(ctx context.Context, assignmentID, studentID uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.StudentID != studentID {
		return models.Assignment{}, ErrForbidden
	}

	if assignment.Status != models.AssignmentStatusPending {
		return models.Assignment{}, ErrAlreadySubmitted
	}

	if assignment.IsPastDue(s.now()) {
		return models.Assignment{}, ErrDeadlinePassed
	}

	return assignment, nil
}

// lessonQuestions extracts the question identifiers from the lesson body.
// Standard and multi-choice lessons store {"questions": [{"id": …}, …]}.
func lessonQuestions(content datatypes.JSON) ([]questionSpec, error) {
	if len(content) == 0 {
		return nil, nil
	}

	var body struct {
		Questions []questionSpec `json:"questions"`
	}
	if err := json.Unmarshal(content, &body); err != nil {
		return nil, fmt.Errorf("lesson content is malformed: %w", err)
	}

	return body.Questions, nil
}

type questionSpec struct {
	ID      string   `json:"id"`
	Options []string `json:"options"`
}

func (s *submissionService) submitAnswerMap(ctx context.Context, assignment models.Assignment, payload json.RawMessage) (dto.SubmitResult, error) {
	var submission dto.StandardSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return dto.SubmitResult{}, fmt.Errorf("invalid submission payload: %w", err)
	}
	if err := s.validator.Struct(submission); err != nil {
		return dto.SubmitResult{}, err
	}

	questions, err := lessonQuestions(assignment.Lesson.Content)
	if err != nil {
		return dto.SubmitResult{}, err
	}

	for _, question := range questions {
		answer, ok := submission.Answers[question.ID]
		if !ok || strings.TrimSpace(answer) == "" {
			return dto.SubmitResult{}, ErrIncompleteSubmission
		}

		if assignment.Lesson.Type == models.LessonTypeMultiChoice && len(question.Options) > 0 {
			if !containsString(question.Options, answer) {
				return dto.SubmitResult{}, fmt.Errorf("answer %q is not an option of question %s", answer, question.ID)
			}
		}
	}

	return s.complete(ctx, assignment, submission, nil)
}

func (s *submissionService) submitFlashcards(ctx context.Context, assignment models.Assignment, payload json.RawMessage) (dto.SubmitResult, error) {
	var submission dto.FlashcardSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return dto.SubmitResult{}, fmt.Errorf("invalid submission payload: %w", err)
	}
	if err := s.validator.Struct(submission); err != nil {
		return dto.SubmitResult{}, err
	}

	// Flashcard runs are a binary pass: no numeric score, the teacher
	// reviews the per-card outcomes in aggregate.
	return s.complete(ctx, assignment, submission, nil)
}

func (s *submissionService) submitComposer(ctx context.Context, assignment models.Assignment, payload json.RawMessage) (dto.SubmitResult, error) {
	var submission dto.ComposerSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return dto.SubmitResult{}, fmt.Errorf("invalid submission payload: %w", err)
	}
	if err := s.validator.Struct(submission); err != nil {
		return dto.SubmitResult{}, err
	}

	config := assignment.Lesson.ComposerConfig
	if config == nil {
		return dto.SubmitResult{}, ErrLessonConfigMissing
	}

	if assignment.ComposerTries >= config.MaxTries {
		return dto.SubmitResult{}, ErrNoTriesLeft
	}

	correct := normalizeSentence(submission.Sentence) == normalizeSentence(config.Sentence)
	assignment.ComposerTries++

	if correct {
		result, err := s.complete(ctx, assignment, submission, nil)
		if err != nil {
			return dto.SubmitResult{}, err
		}
		result.Correct = &correct
		result.TriesUsed = assignment.ComposerTries
		result.TriesLeft = config.MaxTries - assignment.ComposerTries
		return result, nil
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.SubmitResult{}, err
	}

	return dto.SubmitResult{
		Assignment: dto.NewAssignmentResponse(assignment),
		Correct:    &correct,
		TriesUsed:  assignment.ComposerTries,
		TriesLeft:  config.MaxTries - assignment.ComposerTries,
	}, nil
}

func (s *submissionService) submitLearningSession(ctx context.Context, assignment models.Assignment, payload json.RawMessage) (dto.SubmitResult, error) {
	var submission dto.LearningSessionSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return dto.SubmitResult{}, fmt.Errorf("invalid submission payload: %w", err)
	}
	if err := s.validator.Struct(submission); err != nil {
		return dto.SubmitResult{}, err
	}

	return s.complete(ctx, assignment, submission, nil)
}

func (s *submissionService) submitLyric(ctx context.Context, assignment models.Assignment, payload json.RawMessage) (dto.SubmitResult, error) {
	var submission dto.LyricSubmission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return dto.SubmitResult{}, fmt.Errorf("invalid submission payload: %w", err)
	}
	if err := s.validator.Struct(submission); err != nil {
		return dto.SubmitResult{}, err
	}

	scored := submission.ScorePercent != nil

	err := s.db.Transaction(func(tx *gorm.DB) error {
		attempt := models.LyricAttempt{
			AssignmentID:     assignment.ID,
			ScorePercent:     submission.ScorePercent,
			TimeTakenSeconds: submission.TimeTakenSeconds,
		}
		if err := s.attempts.WithTx(tx).Create(ctx, &attempt); err != nil {
			return err
		}

		if !scored {
			return nil
		}

		assignment.Status = models.AssignmentStatusCompleted
		assignment.Score = submission.ScorePercent
		return s.assignments.WithTx(tx).Update(ctx, &assignment)
	})
	if err != nil {
		return dto.SubmitResult{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Bool("scored", scored).Msg("lyric attempt recorded")

	return dto.SubmitResult{
		Assignment:    dto.NewAssignmentResponse(assignment),
		ScoreRecorded: scored,
	}, nil
}

// submitGameFinal closes out a game-type assignment once the client is done
// playing. Per-round rewards were already posted by the game endpoints.
func (s *submissionService) submitGameFinal(ctx context.Context, assignment models.Assignment, payload json.RawMessage) (dto.SubmitResult, error) {
	var stats map[string]interface{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &stats); err != nil {
			return dto.SubmitResult{}, fmt.Errorf("invalid submission payload: %w", err)
		}
	}

	return s.complete(ctx, assignment, stats, nil)
}

// complete marks the assignment COMPLETED with the given answers payload.
func (s *submissionService) complete(ctx context.Context, assignment models.Assignment, answers interface{}, score *float64) (dto.SubmitResult, error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return dto.SubmitResult{}, err
	}

	assignment.Status = models.AssignmentStatusCompleted
	assignment.Answers = datatypes.JSON(encoded)
	if score != nil {
		assignment.Score = score
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.SubmitResult{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Str("lesson_type", string(assignment.Lesson.Type)).
		Msg("assignment submitted")

	return dto.SubmitResult{Assignment: dto.NewAssignmentResponse(assignment)}, nil
}

// normalizeSentence collapses case and whitespace so "Der  Hund läuft " and
// "der hund läuft" compare equal.
func normalizeSentence(sentence string) string {
	return strings.Join(strings.Fields(strings.ToLower(sentence)), " ")
}

func containsString(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
