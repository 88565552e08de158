package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// LessonFilter describes pagination & search options for the catalog.
type LessonFilter struct {
	TeacherID *uint
	Type      *models.LessonType
	Search    string
	Page      int
	PageSize  int
}

// LessonRepository defines persistence operations for lessons and their
// type-specific config sub-records.
type LessonRepository interface {
	List(ctx context.Context, filter LessonFilter) ([]models.Lesson, int64, error)
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
	ListDueForAutoAssign(ctx context.Context, reference time.Time) ([]models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository instantiates a GORM-backed repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Lesson{}).
		Preload("ArkaningConfig").
		Preload("FlipperConfig").
		Preload("ComposerConfig").
		Preload("NewsArticleConfig")
}

func (r *lessonRepository) List(ctx context.Context, filter LessonFilter) ([]models.Lesson, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Lesson{})

	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var lessons []models.Lesson
	if err := query.Order("created_at DESC").Find(&lessons).Error; err != nil {
		return nil, 0, err
	}

	return lessons, total, nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.baseQuery(ctx).First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}

	return lesson, nil
}

func (r *lessonRepository) ListDueForAutoAssign(ctx context.Context, reference time.Time) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := r.baseQuery(ctx).
		Where("notification_mode = ?", models.NotifyModeAssignOnDate).
		Where("scheduled_assignment_date IS NOT NULL").
		Where("scheduled_assignment_date <= ?", reference).
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	return lessons, nil
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(lesson).Error
}

func (r *lessonRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Per-word taps and lyric attempts hang off the assignments, so they
		// go first or the assignment delete would orphan them.
		assignmentIDs := tx.Model(&models.Assignment{}).Select("id").Where("lesson_id = ?", id)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.WordTap{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.LyricAttempt{}).Error; err != nil {
			return err
		}

		if err := tx.Where("lesson_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Lesson{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
