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
)

func newGameFixture(t *testing.T, db *gorm.DB) (GameService, LedgerService) {
	t.Helper()
	ledger := NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewBadgeRepository(db),
		repository.NewUserRepository(db),
		nil, 0, nil, testLogger(),
	)
	games := NewGameService(db, repository.NewAssignmentRepository(db), repository.NewWordTapRepository(db), ledger, testValidator(), testLogger())
	return games, ledger
}

func TestFlipperRewardCurve(t *testing.T) {
	cases := []struct {
		attempts  int
		threshold int
		euros     float64
	}{
		{1, 3, 10},
		{2, 3, 5},
		{3, 3, 1},
		{4, 5, 1},
		{5, 5, 1},
		{4, 3, -5},
		{6, 3, -15},
		{2, 1, 5}, // threshold floors at 3
	}

	for _, tc := range cases {
		require.InDelta(t, tc.euros, flipperEuros(tc.attempts, tc.threshold), 1e-9,
			"attempts=%d threshold=%d", tc.attempts, tc.threshold)
	}
}

func TestFlipperMatchPostsReward(t *testing.T) {
	db := setupTestDB(t)
	games, _ := newGameFixture(t, db)

	teacher := createTeacher(t, db, "flipper-teacher@example.com")
	student := createStudent(t, db, "flipper-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{
		TeacherID:     teacher.ID,
		Type:          models.LessonTypeFlipper,
		Title:         "Tile pairs",
		FlipperConfig: &models.FlipperConfig{AttemptThreshold: 3},
	})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))

	reward, err := games.FlipperMatch(context.Background(), assignment.ID, student.ID, dto.FlipperMatchRequest{Attempts: 1, Word: "haus"})
	require.NoError(t, err)
	require.Equal(t, 100, reward.PointsDelta)
	require.InDelta(t, 10.0, reward.EurosDelta, 1e-9)
	require.Equal(t, 100, reward.TotalPoints)

	// Losing streak past the threshold goes negative.
	reward, err = games.FlipperMatch(context.Background(), assignment.ID, student.ID, dto.FlipperMatchRequest{Attempts: 5, Word: "baum"})
	require.NoError(t, err)
	require.Equal(t, -100, reward.PointsDelta)
	require.Equal(t, 0, reward.TotalPoints)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.Equal(t, 0, reloaded.TotalPoints)
}

func TestArkaningRoundUsesLessonRates(t *testing.T) {
	db := setupTestDB(t)
	games, _ := newGameFixture(t, db)

	teacher := createTeacher(t, db, "arkaning-teacher@example.com")
	student := createStudent(t, db, "arkaning-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{
		TeacherID:      teacher.ID,
		Type:           models.LessonTypeArkaning,
		Title:          "Reflex drill",
		ArkaningConfig: &models.ArkaningConfig{PointsPerCorrect: 25, EurosPerCorrect: 2},
	})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))

	reward, err := games.ArkaningRound(context.Background(), assignment.ID, student.ID, dto.ArkaningRoundRequest{Outcome: dto.ArkaningOutcomeCorrect})
	require.NoError(t, err)
	require.Equal(t, 25, reward.PointsDelta)
	require.InDelta(t, 2.0, reward.EurosDelta, 1e-9)

	reward, err = games.ArkaningRound(context.Background(), assignment.ID, student.ID, dto.ArkaningRoundRequest{Outcome: dto.ArkaningOutcomeWrong})
	require.NoError(t, err)
	require.Equal(t, -50, reward.PointsDelta)
	require.InDelta(t, -50.0, reward.EurosDelta, 1e-9)
	require.Equal(t, -25, reward.TotalPoints)
}

func TestNewsArticleTapRatesAndCap(t *testing.T) {
	db := setupTestDB(t)
	games, _ := newGameFixture(t, db)

	teacher := createTeacher(t, db, "news-teacher@example.com")
	student := createStudent(t, db, "news-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{
		TeacherID:         teacher.ID,
		Type:              models.LessonTypeNewsArticle,
		Title:             "Tagesschau",
		NewsArticleConfig: &models.NewsArticleConfig{MaxWordTaps: 3, FirstTapPoints: 10, RepeatTapPoints: 2},
	})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))

	reward, err := games.NewsArticleTap(context.Background(), assignment.ID, student.ID, dto.NewsArticleTapRequest{Word: "Haus."})
	require.NoError(t, err)
	require.Equal(t, 10, reward.PointsDelta)
	require.NotNil(t, reward.TapCount)
	require.Equal(t, 1, *reward.TapCount)

	// Same word again, punctuation and case must not dodge the repeat rate.
	reward, err = games.NewsArticleTap(context.Background(), assignment.ID, student.ID, dto.NewsArticleTapRequest{Word: "haus"})
	require.NoError(t, err)
	require.Equal(t, 2, reward.PointsDelta)
	require.Equal(t, 2, *reward.TapCount)

	reward, err = games.NewsArticleTap(context.Background(), assignment.ID, student.ID, dto.NewsArticleTapRequest{Word: "Baum"})
	require.NoError(t, err)
	require.Equal(t, 10, reward.PointsDelta)

	_, err = games.NewsArticleTap(context.Background(), assignment.ID, student.ID, dto.NewsArticleTapRequest{Word: "Tor"})
	require.ErrorIs(t, err, ErrTapLimitReached)

	require.Equal(t, 22, rewardTotal(t, db, student.ID))
}

func TestNewsArticleTapBudgetGuardsAgainstStaleReads(t *testing.T) {
	db := setupTestDB(t)
	games, _ := newGameFixture(t, db)

	teacher := createTeacher(t, db, "stale-teacher@example.com")
	student := createStudent(t, db, "stale-student@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{
		TeacherID:         teacher.ID,
		Type:              models.LessonTypeNewsArticle,
		Title:             "Wochenschau",
		NewsArticleConfig: &models.NewsArticleConfig{MaxWordTaps: 2, FirstTapPoints: 10, RepeatTapPoints: 2},
	})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))

	// Another round consumed the remaining budget out from under this one.
	require.NoError(t, db.Model(&models.Assignment{}).Where("id = ?", assignment.ID).
		UpdateColumn("news_article_tap_count", 2).Error)

	_, err := games.NewsArticleTap(context.Background(), assignment.ID, student.ID, dto.NewsArticleTapRequest{Word: "Zug"})
	require.ErrorIs(t, err, ErrTapLimitReached)

	// The rejected tap leaves no ledger entry and the counter untouched.
	var entries int64
	require.NoError(t, db.Model(&models.PointTransaction{}).Where("user_id = ?", student.ID).Count(&entries).Error)
	require.Zero(t, entries)

	var reloaded models.Assignment
	require.NoError(t, db.First(&reloaded, assignment.ID).Error)
	require.Equal(t, 2, reloaded.NewsArticleTapCount)
}

func TestGameEndpointsRejectWrongTypeAndOwner(t *testing.T) {
	db := setupTestDB(t)
	games, _ := newGameFixture(t, db)

	teacher := createTeacher(t, db, "guard-teacher@example.com")
	student := createStudent(t, db, "guard-student@example.com", teacher.ID)
	other := createStudent(t, db, "guard-other@example.com", teacher.ID)
	lesson := createLesson(t, db, models.Lesson{
		TeacherID:     teacher.ID,
		Type:          models.LessonTypeFlipper,
		Title:         "Tiles",
		FlipperConfig: &models.FlipperConfig{AttemptThreshold: 3},
	})
	assignment := createAssignment(t, db, lesson.ID, student.ID, models.AssignmentStatusPending, time.Now().Add(time.Hour))

	_, err := games.ArkaningRound(context.Background(), assignment.ID, student.ID, dto.ArkaningRoundRequest{Outcome: dto.ArkaningOutcomeCorrect})
	require.ErrorIs(t, err, ErrLessonTypeMismatch)

	_, err = games.FlipperMatch(context.Background(), assignment.ID, other.ID, dto.FlipperMatchRequest{Attempts: 1})
	require.ErrorIs(t, err, ErrForbidden)

	expired := createAssignment(t, db, lesson.ID, other.ID, models.AssignmentStatusPending, time.Now().Add(-time.Hour))
	_, err = games.FlipperMatch(context.Background(), expired.ID, other.ID, dto.FlipperMatchRequest{Attempts: 1})
	require.ErrorIs(t, err, ErrDeadlinePassed)
}

func rewardTotal(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.TotalPoints
}
