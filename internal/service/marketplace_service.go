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

// reclaimedDeadline is the sentinel deadline for repurchased assignments: the
// student bought the retry, so it never lapses again.
var reclaimedDeadline = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// MarketplaceService lets students spend earned euros to buy back failed or
// lapsed assignments. The purchase and the assignment reset share one
// transaction.
type MarketplaceService interface {
	Reclaim(ctx context.Context, studentID uint, payload dto.ReclaimRequest) (dto.ReclaimResponse, error)
	Savings(ctx context.Context, studentID uint) (dto.SavingsResponse, error)
}

type marketplaceService struct {
	db          *gorm.DB
	assignments repository.AssignmentRepository
	ledger      repository.LedgerRepository
	rewards     LedgerService
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewMarketplaceService constructs a MarketplaceService instance.
func NewMarketplaceService(db *gorm.DB, assignments repository.AssignmentRepository, ledger repository.LedgerRepository, rewards LedgerService, validate *validator.Validate, logger zerolog.Logger) MarketplaceService {
	return &marketplaceService{
		db:          db,
		assignments: assignments,
		ledger:      ledger,
		rewards:     rewards,
		validator:   validate,
		logger:      logger.With().Str("component", "marketplace_service").Logger(),
		now:         time.Now,
	}
}

func (s *marketplaceService) Reclaim(ctx context.Context, studentID uint, payload dto.ReclaimRequest) (dto.ReclaimResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReclaimResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReclaimResponse{}, ErrAssignmentNotFound
		}
		return dto.ReclaimResponse{}, err
	}

	if assignment.StudentID != studentID {
		return dto.ReclaimResponse{}, ErrForbidden
	}

	// The purchase check runs first so a repeat reclaim on an already reset
	// assignment reports the purchase, not the reset state.
	purchased, err := s.ledger.ExistsByAssignmentAndReason(ctx, assignment.ID, models.ReasonMarketplacePurchase)
	if err != nil {
		return dto.ReclaimResponse{}, err
	}
	if purchased {
		return dto.ReclaimResponse{}, ErrAlreadyPurchased
	}

	if !assignment.IsReclaimable(s.now()) {
		return dto.ReclaimResponse{}, ErrNotEligible
	}

	savings, err := s.Savings(ctx, studentID)
	if err != nil {
		return dto.ReclaimResponse{}, err
	}

	price := assignment.Lesson.Price
	if savings.Available < price {
		return dto.ReclaimResponse{}, ErrInsufficientSavings
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.rewards.RecordReward(ctx, tx, &models.PointTransaction{
			UserID:       studentID,
			AssignmentID: &assignment.ID,
			Points:       0,
			AmountEuro:   -price,
			Reason:       models.ReasonMarketplacePurchase,
			Note:         fmt.Sprintf("lesson:%d", assignment.LessonID),
		}); err != nil {
			return err
		}

		assignment.Status = models.AssignmentStatusPending
		assignment.Deadline = reclaimedDeadline
		assignment.Answers = nil
		assignment.Score = nil
		assignment.TeacherComments = ""
		assignment.PointsAwarded = 0
		assignment.ExtraPoints = 0
		assignment.GradedAt = nil
		assignment.NewsArticleTapCount = 0
		assignment.ComposerTries = 0

		return s.assignments.WithTx(tx).Update(ctx, &assignment)
	})
	if err != nil {
		return dto.ReclaimResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("student_id", studentID).
		Float64("price", price).
		Msg("assignment repurchased")

	return dto.ReclaimResponse{
		Success:          true,
		AssignmentID:     assignment.ID,
		PricePaid:        price,
		RemainingSavings: savings.Available - price,
		NewDeadline:      reclaimedDeadline,
	}, nil
}

// Savings derives the spendable balance from the ledger: euros earned through
// grading minus euros spent on repurchases. Game euros are play money and do
// not count toward the marketplace balance.
func (s *marketplaceService) Savings(ctx context.Context, studentID uint) (dto.SavingsResponse, error) {
	earned, err := s.ledger.SumEuroByUserAndReason(ctx, studentID, models.ReasonAssignmentGraded)
	if err != nil {
		return dto.SavingsResponse{}, err
	}

	spentNegative, err := s.ledger.SumEuroByUserAndReason(ctx, studentID, models.ReasonMarketplacePurchase)
	if err != nil {
		return dto.SavingsResponse{}, err
	}

	spent := -spentNegative

	return dto.SavingsResponse{
		Earned:    earned,
		Spent:     spent,
		Available: earned - spent,
	}, nil
}
