package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// NotificationLogRepository records attempted transactional emails and lets
// the scheduled notifier skip work it already performed.
type NotificationLogRepository interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	ExistsByAssignmentAndKind(ctx context.Context, assignmentID uint, kind string) (bool, error)
}

type notificationLogRepository struct {
	db *gorm.DB
}

// NewNotificationLogRepository instantiates a GORM-backed repository.
func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *notificationLogRepository) ExistsByAssignmentAndKind(ctx context.Context, assignmentID uint, kind string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NotificationLog{}).
		Where("assignment_id = ?", assignmentID).
		Where("kind = ?", kind).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
