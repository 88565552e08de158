package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
	"github.com/lessonhub/lessonhub-api/pkg/mailer"
)

func newGradingFixture(t *testing.T, db *gorm.DB, ledger LedgerService) GradingService {
	t.Helper()
	if ledger == nil {
		ledger = NewLedgerService(
			repository.NewLedgerRepository(db),
			repository.NewBadgeRepository(db),
			repository.NewUserRepository(db),
			nil, 0, nil, testLogger(),
		)
	}
	dispatcher := NewMailDispatcher(mailer.Noop{}, repository.NewNotificationLogRepository(db), testLogger())
	return NewGradingService(db, repository.NewAssignmentRepository(db), ledger, dispatcher, testValidator(), testLogger())
}

func TestGradePaysScoreAndExtraPoints(t *testing.T) {
	db := setupTestDB(t)
	grading := newGradingFixture(t, db, nil)

	teacher := createTeacher(t, db, "grade-teacher@example.com")
	student := createStudent(t, db, "grade-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{
		TeacherID: teacher.ID,
		Type:      models.LessonTypeStandard,
		Title:     "Grammar drill",
		Price:     20,
	})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusCompleted, time.Now().Add(time.Hour))

	graded, err := grading.Grade(context.Background(), assignment.ID, teacher.ID, dto.GradeRequest{
		Score:           80,
		TeacherComments: "Gut gemacht <script>alert(1)</script>",
		ExtraPoints:     5,
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusGraded, graded.Status)
	require.Equal(t, 85, graded.PointsAwarded)
	require.NotNil(t, graded.GradedAt)
	require.NotContains(t, graded.TeacherComments, "<script>")

	require.Equal(t, 85, rewardTotal(t, db, student.ID))

	var entry models.PointTransaction
	require.NoError(t, db.Where("assignment_id = ?", assignment.ID).First(&entry).Error)
	require.Equal(t, models.ReasonAssignmentGraded, entry.Reason)
	require.InDelta(t, 16.0, entry.AmountEuro, 1e-9) // 20 euro lesson at 80%
}

func TestGradeRejectsWrongStatesAndOwners(t *testing.T) {
	db := setupTestDB(t)
	grading := newGradingFixture(t, db, nil)

	teacher := createTeacher(t, db, "grade2-teacher@example.com")
	intruder := createTeacher(t, db, "grade2-intruder@example.com")
	student := createStudent(t, db, "grade2-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "Essay"})

	pending := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))
	_, err := grading.Grade(context.Background(), pending.ID, teacher.ID, dto.GradeRequest{Score: 50})
	require.ErrorIs(t, err, ErrNotGradable)

	_, err = grading.Grade(context.Background(), pending.ID, intruder.ID, dto.GradeRequest{Score: 50})
	require.ErrorIs(t, err, ErrForbidden)
}

// failingLedger breaks the reward write so the surrounding transaction must
// roll back.
type failingLedger struct{}

var errLedgerDown = errors.New("ledger unavailable")

func (failingLedger) RecordReward(context.Context, *gorm.DB, *models.PointTransaction) (int, error) {
	return 0, errLedgerDown
}

func (failingLedger) RecentActivity(context.Context, uint, int) ([]dto.LedgerEntryResponse, error) {
	return nil, nil
}

func (failingLedger) Leaderboard(context.Context, int) ([]dto.LeaderboardEntry, error) {
	return nil, nil
}

func (failingLedger) Badges(context.Context, uint) ([]dto.BadgeResponse, error) {
	return nil, nil
}

func TestGradeRollsBackWhenRewardFails(t *testing.T) {
	db := setupTestDB(t)
	grading := newGradingFixture(t, db, failingLedger{})

	teacher := createTeacher(t, db, "atomic-teacher@example.com")
	student := createStudent(t, db, "atomic-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "Atomic", Price: 10})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusCompleted, time.Now().Add(time.Hour))

	_, err := grading.Grade(context.Background(), assignment.ID, teacher.ID, dto.GradeRequest{Score: 90})
	require.ErrorIs(t, err, errLedgerDown)

	var reloaded models.Assignment
	require.NoError(t, db.First(&reloaded, assignment.ID).Error)
	require.Equal(t, models.AssignmentStatusCompleted, reloaded.Status)
	require.Nil(t, reloaded.GradedAt)
	require.Equal(t, 0, rewardTotal(t, db, student.ID))
}
