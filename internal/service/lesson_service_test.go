package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

func newLessonFixture(t *testing.T, db *gorm.DB) LessonService {
	t.Helper()
	return NewLessonService(repository.NewLessonRepository(db), newAssignmentFixture(t, db), testValidator(), testLogger())
}

func TestCreateEnforcesConfigPerType(t *testing.T) {
	db := setupTestDB(t)
	svc := newLessonFixture(t, db)
	teacher := createTeacher(t, db, "lesson-teacher@example.com")

	arkaning := &dto.ArkaningConfigPayload{PointsPerCorrect: 25, EurosPerCorrect: 2}
	flipper := &dto.FlipperConfigPayload{AttemptThreshold: 4}

	cases := []struct {
		name    string
		payload dto.LessonCreateRequest
		ok      bool
	}{
		{"arkaning with its config", dto.LessonCreateRequest{Type: models.LessonTypeArkaning, Title: "Reflexes", ArkaningConfig: arkaning}, true},
		{"arkaning without config", dto.LessonCreateRequest{Type: models.LessonTypeArkaning, Title: "Reflexes"}, false},
		{"arkaning with a foreign config", dto.LessonCreateRequest{Type: models.LessonTypeArkaning, Title: "Reflexes", ArkaningConfig: arkaning, FlipperConfig: flipper}, false},
		{"standard with a game config", dto.LessonCreateRequest{Type: models.LessonTypeStandard, Title: "Reading", FlipperConfig: flipper}, false},
		{"flipper with its config", dto.LessonCreateRequest{Type: models.LessonTypeFlipper, Title: "Tiles", FlipperConfig: flipper}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), teacher.ID, tc.payload)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidLessonPayload)
		})
	}
}

func TestCreateRejectsUnknownTypeAndLowThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := newLessonFixture(t, db)
	teacher := createTeacher(t, db, "lesson2-teacher@example.com")

	_, err := svc.Create(context.Background(), teacher.ID, dto.LessonCreateRequest{Type: "KARAOKE", Title: "Sing"})
	require.ErrorIs(t, err, ErrInvalidLessonPayload)

	_, err = svc.Create(context.Background(), teacher.ID, dto.LessonCreateRequest{
		Type:          models.LessonTypeFlipper,
		Title:         "Tiles",
		FlipperConfig: &dto.FlipperConfigPayload{AttemptThreshold: 2},
	})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestCreateAppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newLessonFixture(t, db)
	teacher := createTeacher(t, db, "lesson3-teacher@example.com")

	created, err := svc.Create(context.Background(), teacher.ID, dto.LessonCreateRequest{
		Type:  models.LessonTypeStandard,
		Title: "Plain lesson",
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Difficulty)
	require.Equal(t, models.NotifyModeNotAssigned, created.NotificationMode)
}

func TestCreateAutoAssignsOnPublish(t *testing.T) {
	db := setupTestDB(t)
	svc := newLessonFixture(t, db)

	teacher := createTeacher(t, db, "publish-teacher@example.com")
	createStudent(t, db, "publish-first@example.com", teacher.ID)
	createStudent(t, db, "publish-second@example.com", teacher.ID)

	scheduled := time.Now().Add(48 * time.Hour)
	cases := []struct {
		name    string
		payload dto.LessonCreateRequest
		want    int64
	}{
		{"not assigned stays in the catalog", dto.LessonCreateRequest{Type: models.LessonTypeStandard, Title: "Catalog only", NotificationMode: models.NotifyModeNotAssigned}, 0},
		{"silent assign reaches the class", dto.LessonCreateRequest{Type: models.LessonTypeStandard, Title: "Quiet homework", NotificationMode: models.NotifyModeAssignSilent}, 2},
		{"assign and notify reaches the class", dto.LessonCreateRequest{Type: models.LessonTypeStandard, Title: "Loud homework", NotificationMode: models.NotifyModeAssignAndNotify}, 2},
		{"scheduled assign waits for the cron", dto.LessonCreateRequest{Type: models.LessonTypeStandard, Title: "Later homework", NotificationMode: models.NotifyModeAssignOnDate, ScheduledAssignmentDate: &scheduled}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := svc.Create(context.Background(), teacher.ID, tc.payload)
			require.NoError(t, err)

			var count int64
			require.NoError(t, db.Model(&models.Assignment{}).Where("lesson_id = ?", created.ID).Count(&count).Error)
			require.Equal(t, tc.want, count)
		})
	}
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newLessonFixture(t, db)

	teacher := createTeacher(t, db, "lesson4-teacher@example.com")
	intruder := createTeacher(t, db, "lesson4-intruder@example.com")
	lesson := createLesson(t, db, models.Lesson{TeacherID: teacher.ID, Type: models.LessonTypeStandard, Title: "Guarded"})

	title := "Renamed"
	_, err := svc.Update(context.Background(), lesson.ID, intruder.ID, dto.LessonUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, svc.Delete(context.Background(), lesson.ID, intruder.ID), ErrForbidden)

	updated, err := svc.Update(context.Background(), lesson.ID, teacher.ID, dto.LessonUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)

	require.NoError(t, svc.Delete(context.Background(), lesson.ID, teacher.ID))
	_, err = svc.Get(context.Background(), lesson.ID)
	require.ErrorIs(t, err, ErrLessonNotFound)
}
