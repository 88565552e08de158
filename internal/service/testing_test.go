package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test so rows never leak between tests
	// while connections within a test still share state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Lesson{},
		&models.ArkaningConfig{},
		&models.FlipperConfig{},
		&models.ComposerConfig{},
		&models.NewsArticleConfig{},
		&models.Assignment{},
		&models.PointTransaction{},
		&models.WordTap{},
		&models.LyricAttempt{},
		&models.NotificationLog{},
		&models.Badge{},
		&models.UserBadge{},
	))
	return db
}

func createTeacher(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	teacher := models.User{Name: "Teacher", Email: email, Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func createStudent(t *testing.T, db *gorm.DB, email string, teacherID uint) models.User {
	t.Helper()
	student := models.User{Name: "Student", Email: email, Role: models.RoleStudent, TeacherID: &teacherID}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func createLesson(t *testing.T, db *gorm.DB, lesson models.Lesson) models.Lesson {
	t.Helper()
	require.NoError(t, db.Create(&lesson).Error)
	return lesson
}

func createAssignment(t *testing.T, db *gorm.DB, lessonID, studentID uint, status models.AssignmentStatus, deadline time.Time) models.Assignment {
	t.Helper()
	assignment := models.Assignment{
		LessonID:         lessonID,
		StudentID:        studentID,
		Status:           status,
		Deadline:         deadline,
		OriginalDeadline: deadline,
		StartDate:        deadline.Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}
