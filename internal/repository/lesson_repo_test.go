package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

func TestLessonDeleteRemovesDependentRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLessonRepository(db)

	teacher := models.User{Name: "Teacher", Email: "delete-teacher@example.com", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.User{Name: "Student", Email: "delete-student@example.com", Role: models.RoleStudent, TeacherID: &teacher.ID}
	require.NoError(t, db.Create(&student).Error)

	lesson := models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeNewsArticle, Title: "Doomed"}
	require.NoError(t, db.Create(&lesson).Error)
	keeper := models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeLyric, Title: "Kept"}
	require.NoError(t, db.Create(&keeper).Error)

	deadline := time.Now().Add(time.Hour)
	doomed := models.Assignment{LessonID: lesson.ID, StudentID: student.ID, Status: models.AssignmentStatusPending, Deadline: deadline, OriginalDeadline: deadline, StartDate: time.Now()}
	require.NoError(t, db.Create(&doomed).Error)
	kept := models.Assignment{LessonID: keeper.ID, StudentID: student.ID, Status: models.AssignmentStatusPending, Deadline: deadline, OriginalDeadline: deadline, StartDate: time.Now()}
	require.NoError(t, db.Create(&kept).Error)

	require.NoError(t, db.Create(&models.WordTap{AssignmentID: doomed.ID, Word: "haus", TapCount: 2}).Error)
	require.NoError(t, db.Create(&models.LyricAttempt{AssignmentID: doomed.ID, TimeTakenSeconds: 30}).Error)
	require.NoError(t, db.Create(&models.LyricAttempt{AssignmentID: kept.ID, TimeTakenSeconds: 45}).Error)

	require.NoError(t, repo.Delete(context.Background(), lesson.ID))

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Where("lesson_id = ?", lesson.ID).Count(&count).Error)
	require.Zero(t, count)

	require.NoError(t, db.Model(&models.WordTap{}).Where("assignment_id = ?", doomed.ID).Count(&count).Error)
	require.Zero(t, count)

	require.NoError(t, db.Model(&models.LyricAttempt{}).Where("assignment_id = ?", doomed.ID).Count(&count).Error)
	require.Zero(t, count)

	// Rows under other lessons stay put.
	require.NoError(t, db.Model(&models.LyricAttempt{}).Where("assignment_id = ?", kept.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLessonDeleteUnknownIDReportsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLessonRepository(db)

	require.ErrorIs(t, repo.Delete(context.Background(), 4242), gorm.ErrRecordNotFound)
}
