package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// BadgeRepository manages the badge catalog and per-user awards.
type BadgeRepository interface {
	WithTx(tx *gorm.DB) BadgeRepository
	Seed(ctx context.Context, badges []models.Badge) error
	ListEarnable(ctx context.Context, userID uint, totalPoints int) ([]models.Badge, error)
	Award(ctx context.Context, award *models.UserBadge) error
	ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error)
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository instantiates a GORM-backed repository.
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) WithTx(tx *gorm.DB) BadgeRepository {
	return &badgeRepository{db: tx}
}

func (r *badgeRepository) Seed(ctx context.Context, badges []models.Badge) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&badges).Error
}

// ListEarnable returns badges whose threshold the user has reached but which
// have not been awarded yet.
func (r *badgeRepository) ListEarnable(ctx context.Context, userID uint, totalPoints int) ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.WithContext(ctx).
		Where("min_points <= ?", totalPoints).
		Where("id NOT IN (?)", r.db.Model(&models.UserBadge{}).
			Select("badge_id").
			Where("user_id = ?", userID)).
		Order("min_points ASC").
		Find(&badges).Error; err != nil {
		return nil, err
	}

	return badges, nil
}

func (r *badgeRepository) Award(ctx context.Context, award *models.UserBadge) error {
	return r.db.WithContext(ctx).Create(award).Error
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var awards []models.UserBadge
	if err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&awards).Error; err != nil {
		return nil, err
	}

	return awards, nil
}
