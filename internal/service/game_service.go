package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

// GameService posts per-round rewards for the in-lesson games. Each round is
// a single transaction: the assignment checks, the ledger entry, the points
// bump and any counter move together or not at all.
type GameService interface {
	ArkaningRound(ctx context.Context, assignmentID, studentID uint, payload dto.ArkaningRoundRequest) (dto.RewardResponse, error)
	FlipperMatch(ctx context.Context, assignmentID, studentID uint, payload dto.FlipperMatchRequest) (dto.RewardResponse, error)
	NewsArticleTap(ctx context.Context, assignmentID, studentID uint, payload dto.NewsArticleTapRequest) (dto.RewardResponse, error)
}

type gameService struct {
	db          *gorm.DB
	assignments repository.AssignmentRepository
	taps        repository.WordTapRepository
	ledger      LedgerService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGameService constructs a GameService instance.
func NewGameService(db *gorm.DB, assignments repository.AssignmentRepository, taps repository.WordTapRepository, ledger LedgerService, validate *validator.Validate, logger zerolog.Logger) GameService {
	return &gameService{
		db:          db,
		assignments: assignments,
		taps:        taps,
		ledger:      ledger,
		validator:   validate,
		logger:      logger.With().Str("component", "game_service").Logger(),
		now:         time.Now,
	}
}

// loadPlayable verifies the assignment belongs to the student, matches the
// expected lesson type, and is still open for play. Callers pass a
// transaction-bound repository so the checks read the same snapshot the
// reward is written into.
func (s *gameService) loadPlayable(ctx context.Context, assignments repository.AssignmentRepository, assignmentID, studentID uint, lessonType models.LessonType) (models.Assignment, error) {
	assignment, err := assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.StudentID != studentID {
		return models.Assignment{}, ErrForbidden
	}

	if assignment.Lesson.Type != lessonType {
		return models.Assignment{}, ErrLessonTypeMismatch
	}

	if assignment.Status != models.AssignmentStatusPending {
		return models.Assignment{}, ErrAlreadySubmitted
	}

	if assignment.IsPastDue(s.now()) {
		return models.Assignment{}, ErrDeadlinePassed
	}

	return assignment, nil
}

func (s *gameService) ArkaningRound(ctx context.Context, assignmentID, studentID uint, payload dto.ArkaningRoundRequest) (dto.RewardResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RewardResponse{}, err
	}

	var reward dto.RewardResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignment, err := s.loadPlayable(ctx, s.assignments.WithTx(tx), assignmentID, studentID, models.LessonTypeArkaning)
		if err != nil {
			return err
		}

		config := assignment.Lesson.ArkaningConfig
		if config == nil {
			return ErrLessonConfigMissing
		}

		points := config.PointsPerCorrect
		euros := config.EurosPerCorrect
		if payload.Outcome == dto.ArkaningOutcomeWrong {
			points = arkaningWrongPoints
			euros = arkaningWrongEuros
		}

		total, err := s.ledger.RecordReward(ctx, tx, &models.PointTransaction{
			UserID:       studentID,
			AssignmentID: &assignment.ID,
			Points:       points,
			AmountEuro:   euros,
			Reason:       models.ReasonArkaningGame,
			Note:         payload.Outcome,
		})
		if err != nil {
			return err
		}

		reward = dto.RewardResponse{PointsDelta: points, EurosDelta: euros, TotalPoints: total}
		return nil
	})
	if err != nil {
		return dto.RewardResponse{}, err
	}

	return reward, nil
}

func (s *gameService) FlipperMatch(ctx context.Context, assignmentID, studentID uint, payload dto.FlipperMatchRequest) (dto.RewardResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RewardResponse{}, err
	}

	var reward dto.RewardResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignment, err := s.loadPlayable(ctx, s.assignments.WithTx(tx), assignmentID, studentID, models.LessonTypeFlipper)
		if err != nil {
			return err
		}

		config := assignment.Lesson.FlipperConfig
		if config == nil {
			return ErrLessonConfigMissing
		}

		euros := flipperEuros(payload.Attempts, config.AttemptThreshold)
		points := pointsFromEuros(euros)

		total, err := s.ledger.RecordReward(ctx, tx, &models.PointTransaction{
			UserID:       studentID,
			AssignmentID: &assignment.ID,
			Points:       points,
			AmountEuro:   euros,
			Reason:       models.ReasonFlipperMatch,
			Note:         payload.Word,
		})
		if err != nil {
			return err
		}

		reward = dto.RewardResponse{PointsDelta: points, EurosDelta: euros, TotalPoints: total}
		return nil
	})
	if err != nil {
		return dto.RewardResponse{}, err
	}

	return reward, nil
}

// NewsArticleTap pays the first-tap rate the first time a word is looked up
// and the repeat rate afterwards, tracked per (assignment, word). The
// per-assignment tap budget is consumed with a guarded counter update, so
// two concurrent taps on the last slot cannot both get paid.
func (s *gameService) NewsArticleTap(ctx context.Context, assignmentID, studentID uint, payload dto.NewsArticleTapRequest) (dto.RewardResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RewardResponse{}, err
	}

	word := models.NormalizeWord(payload.Word)

	var reward dto.RewardResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		assignments := s.assignments.WithTx(tx)

		assignment, err := s.loadPlayable(ctx, assignments, assignmentID, studentID, models.LessonTypeNewsArticle)
		if err != nil {
			return err
		}

		config := assignment.Lesson.NewsArticleConfig
		if config == nil {
			return ErrLessonConfigMissing
		}

		consumed, err := assignments.IncrementTapCount(ctx, assignment.ID, config.MaxWordTaps)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrTapLimitReached
		}

		taps := s.taps.WithTx(tx)

		var (
			points   int
			tapCount int
		)
		tap, found, err := taps.Get(ctx, assignment.ID, word)
		if err != nil {
			return err
		}

		if found {
			points = config.RepeatTapPoints
			if err := taps.IncrementCount(ctx, &tap); err != nil {
				return err
			}
			tapCount = tap.TapCount + 1
		} else {
			points = config.FirstTapPoints
			tap = models.WordTap{AssignmentID: assignment.ID, Word: word, TapCount: 1}
			if err := taps.Create(ctx, &tap); err != nil {
				return err
			}
			tapCount = 1
		}

		euros := float64(points) / PointToEuroRate
		total, err := s.ledger.RecordReward(ctx, tx, &models.PointTransaction{
			UserID:       studentID,
			AssignmentID: &assignment.ID,
			Points:       points,
			AmountEuro:   euros,
			Reason:       models.ReasonNewsArticleTap,
			Note:         word,
		})
		if err != nil {
			return err
		}

		reward = dto.RewardResponse{
			PointsDelta: points,
			EurosDelta:  euros,
			TotalPoints: total,
			TapCount:    &tapCount,
		}
		return nil
	})
	if err != nil {
		return dto.RewardResponse{}, err
	}

	return reward, nil
}
