package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// WordTapRepository tracks which words a student already looked up inside a
// news-article assignment, keyed by (assignment, normalized word).
type WordTapRepository interface {
	WithTx(tx *gorm.DB) WordTapRepository
	Get(ctx context.Context, assignmentID uint, word string) (models.WordTap, bool, error)
	Create(ctx context.Context, tap *models.WordTap) error
	IncrementCount(ctx context.Context, tap *models.WordTap) error
}

type wordTapRepository struct {
	db *gorm.DB
}

// NewWordTapRepository instantiates a GORM-backed repository.
func NewWordTapRepository(db *gorm.DB) WordTapRepository {
	return &wordTapRepository{db: db}
}

func (r *wordTapRepository) WithTx(tx *gorm.DB) WordTapRepository {
	return &wordTapRepository{db: tx}
}

func (r *wordTapRepository) Get(ctx context.Context, assignmentID uint, word string) (models.WordTap, bool, error) {
	var tap models.WordTap
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("word = ?", word).
		First(&tap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.WordTap{}, false, nil
		}
		return models.WordTap{}, false, err
	}

	return tap, true, nil
}

func (r *wordTapRepository) Create(ctx context.Context, tap *models.WordTap) error {
	return r.db.WithContext(ctx).Create(tap).Error
}

func (r *wordTapRepository) IncrementCount(ctx context.Context, tap *models.WordTap) error {
	return r.db.WithContext(ctx).Model(tap).
		UpdateColumn("tap_count", gorm.Expr("tap_count + 1")).Error
}
