package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
	"github.com/lessonhub/lessonhub-api/pkg/mailer"
)

func newAssignmentFixture(t *testing.T, db *gorm.DB) AssignmentService {
	t.Helper()
	dispatcher := NewMailDispatcher(mailer.Noop{}, repository.NewNotificationLogRepository(db), testLogger())
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewLessonRepository(db),
		repository.NewUserRepository(db),
		testValidator(), dispatcher, testLogger(),
	)
}

func TestAssignDefaultsToAllStudentsAndSkipsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentFixture(t, db)

	teacher := createTeacher(t, db, "assign-teacher@example.com")
	first := createStudent(t, db, "assign-first@example.com", teacher.ID)
	createStudent(t, db, "assign-second@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "For everyone"})

	result, err := svc.Assign(context.Background(), lesson.ID, teacher.ID, dto.AssignRequest{})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	require.Empty(t, result.Skipped)

	// Re-assigning skips everyone who already holds the lesson.
	result, err = svc.Assign(context.Background(), lesson.ID, teacher.ID, dto.AssignRequest{StudentIDs: []uint{first.ID}})
	require.NoError(t, err)
	require.Empty(t, result.Created)
	require.Equal(t, []uint{first.ID}, result.Skipped)
}

func TestAssignAppliesDefaultDeadline(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentFixture(t, db)

	teacher := createTeacher(t, db, "window-teacher@example.com")
	createStudent(t, db, "window-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "Default window"})

	before := time.Now()
	result, err := svc.Assign(context.Background(), lesson.ID, teacher.ID, dto.AssignRequest{})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	deadline := result.Created[0].Deadline
	require.WithinDuration(t, before.Add(DefaultAssignmentWindow), deadline, time.Minute)
	require.Equal(t, deadline, result.Created[0].OriginalDeadline)
}

func TestAssignRejectsForeignLessonsAndStudents(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentFixture(t, db)

	teacher := createTeacher(t, db, "foreign-teacher@example.com")
	other := createTeacher(t, db, "foreign-other@example.com")
	stranger := createStudent(t, db, "foreign-student@example.com", other.ID)
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "Mine"})

	_, err := svc.Assign(context.Background(), lesson.ID, other.ID, dto.AssignRequest{})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Assign(context.Background(), lesson.ID, teacher.ID, dto.AssignRequest{StudentIDs: []uint{stranger.ID}})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGetScopesAssignmentsByRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newAssignmentFixture(t, db)

	teacher := createTeacher(t, db, "scope-teacher@example.com")
	student := createStudent(t, db, "scope-student@example.com", teacher.ID)
	peeker := createStudent(t, db, "scope-peeker@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "Private"})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))

	_, err := svc.Get(context.Background(), assignment.ID, student.ID, models.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), assignment.ID, peeker.ID, models.RoleStudent)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(context.Background(), assignment.ID, teacher.ID, models.RoleTeacher)
	require.NoError(t, err)
}
