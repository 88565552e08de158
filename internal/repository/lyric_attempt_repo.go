package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// LyricAttemptRepository stores play-throughs of lyric lessons.
type LyricAttemptRepository interface {
	WithTx(tx *gorm.DB) LyricAttemptRepository
	Create(ctx context.Context, attempt *models.LyricAttempt) error
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.LyricAttempt, error)
}

type lyricAttemptRepository struct {
	db *gorm.DB
}

// NewLyricAttemptRepository instantiates a GORM-backed repository.
func NewLyricAttemptRepository(db *gorm.DB) LyricAttemptRepository {
	return &lyricAttemptRepository{db: db}
}

func (r *lyricAttemptRepository) WithTx(tx *gorm.DB) LyricAttemptRepository {
	return &lyricAttemptRepository{db: tx}
}

func (r *lyricAttemptRepository) Create(ctx context.Context, attempt *models.LyricAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *lyricAttemptRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.LyricAttempt, error) {
	var attempts []models.LyricAttempt
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}
