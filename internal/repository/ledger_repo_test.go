package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

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

func TestLedgerRecordKeepsTotalsInSync(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(db)

	student := models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	entries := []models.PointTransaction{
		{UserID: student.ID, Points: 100, AmountEuro: 10, Reason: models.ReasonAssignmentGraded},
		{UserID: student.ID, Points: 50, AmountEuro: 5, Reason: models.ReasonFlipperMatch},
		{UserID: student.ID, Points: -50, AmountEuro: -50, Reason: models.ReasonArkaningGame},
	}
	for i := range entries {
		require.NoError(t, repo.Record(context.Background(), &entries[i]))
	}

	sum, err := repo.SumPointsByUser(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, 100, sum)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.Equal(t, sum, reloaded.TotalPoints, "total_points must equal the ledger sum")
}

func TestLedgerExistsByAssignmentAndReason(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(db)

	student := models.User{Name: "Ben", Email: "ben@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	assignmentID := uint(7)
	entry := models.PointTransaction{
		UserID:       student.ID,
		AssignmentID: &assignmentID,
		Points:       0,
		AmountEuro:   -15,
		Reason:       models.ReasonMarketplacePurchase,
	}
	require.NoError(t, repo.Record(context.Background(), &entry))

	exists, err := repo.ExistsByAssignmentAndReason(context.Background(), assignmentID, models.ReasonMarketplacePurchase)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByAssignmentAndReason(context.Background(), assignmentID, models.ReasonAssignmentGraded)
	require.NoError(t, err)
	require.False(t, exists)

	spent, err := repo.SumEuroByUserAndReason(context.Background(), student.ID, models.ReasonMarketplacePurchase)
	require.NoError(t, err)
	require.InDelta(t, -15.0, spent, 1e-9)
}
