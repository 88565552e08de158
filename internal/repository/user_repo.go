package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	ListStudentsByTeacher(ctx context.Context, teacherID uint) ([]models.User, error)
	ListTopByPoints(ctx context.Context, limit int) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) ListStudentsByTeacher(ctx context.Context, teacherID uint) ([]models.User, error) {
	var students []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *userRepository) ListTopByPoints(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("total_points DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
