package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// AssignmentFilter narrows assignment queries.
type AssignmentFilter struct {
	LessonID  *uint
	StudentID *uint
	TeacherID *uint
	Status    *models.AssignmentStatus
}

// AssignmentRepository defines data operations for assignments. WithTx
// returns a copy bound to the given transaction so lifecycle mutations can
// commit together with ledger writes.
type AssignmentRepository interface {
	WithTx(tx *gorm.DB) AssignmentRepository
	List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	ExistsByLessonAndStudent(ctx context.Context, lessonID, studentID uint) (bool, error)
	ListPendingPastDue(ctx context.Context, reference time.Time) ([]models.Assignment, error)
	ListPendingDueWithin(ctx context.Context, from, to time.Time) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	IncrementTapCount(ctx context.Context, id uint, max int) (bool, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: tx}
}

func (r *assignmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).
		Preload("Lesson").
		Preload("Lesson.ArkaningConfig").
		Preload("Lesson.FlipperConfig").
		Preload("Lesson.ComposerConfig").
		Preload("Lesson.NewsArticleConfig").
		Preload("Student")
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.baseQuery(ctx)

	if filter.LessonID != nil {
		query = query.Where("lesson_id = ?", *filter.LessonID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.TeacherID != nil {
		query = query.Joins("JOIN lessons ON lessons.id = assignments.lesson_id").
			Where("lessons.teacher_id = ?", *filter.TeacherID)
	}

	if filter.Status != nil {
		query = query.Where("assignments.status = ?", *filter.Status)
	}

	var assignments []models.Assignment
	if err := query.Order("assignments.deadline ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) ExistsByLessonAndStudent(ctx context.Context, lessonID, studentID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("lesson_id = ?", lessonID).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *assignmentRepository) ListPendingPastDue(ctx context.Context, reference time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.baseQuery(ctx).
		Where("assignments.status = ?", models.AssignmentStatusPending).
		Where("assignments.deadline < ?", reference).
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListPendingDueWithin(ctx context.Context, from, to time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.baseQuery(ctx).
		Where("assignments.status = ?", models.AssignmentStatusPending).
		Where("assignments.deadline >= ?", from).
		Where("assignments.deadline <= ?", to).
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	// Omit associations so updating a preloaded record never writes back
	// into the lessons or users tables.
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(assignment).Error
}

// IncrementTapCount bumps the news-article tap counter in place. When max is
// positive the update only applies while the counter is still below it, so
// concurrent taps cannot push past the budget. The return reports whether a
// tap was consumed.
func (r *assignmentRepository) IncrementTapCount(ctx context.Context, id uint, max int) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("id = ?", id)
	if max > 0 {
		query = query.Where("news_article_tap_count < ?", max)
	}

	result := query.UpdateColumn("news_article_tap_count", gorm.Expr("news_article_tap_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
