package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// LedgerRepository is the only writer of reward state. Record appends a
// PointTransaction AND bumps users.total_points in one statement pair on the
// same *gorm.DB handle, so a caller that passes a transaction via WithTx gets
// both writes committed or rolled back together. There is deliberately no
// update or delete: corrections are new offsetting entries.
type LedgerRepository interface {
	WithTx(tx *gorm.DB) LedgerRepository
	Record(ctx context.Context, entry *models.PointTransaction) error
	SumPointsByUser(ctx context.Context, userID uint) (int, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.PointTransaction, error)
	ExistsByAssignmentAndReason(ctx context.Context, assignmentID uint, reason models.TransactionReason) (bool, error)
	SumEuroByUserAndReason(ctx context.Context, userID uint, reason models.TransactionReason) (float64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository instantiates a GORM-backed ledger.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: tx}
}

func (r *ledgerRepository) Record(ctx context.Context, entry *models.PointTransaction) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", entry.UserID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", entry.Points)).Error
}

func (r *ledgerRepository) SumPointsByUser(ctx context.Context, userID uint) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}

	return int(total), nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.PointTransaction, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []models.PointTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *ledgerRepository) ExistsByAssignmentAndReason(ctx context.Context, assignmentID uint, reason models.TransactionReason) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PointTransaction{}).
		Where("assignment_id = ?", assignmentID).
		Where("reason = ?", reason).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *ledgerRepository) SumEuroByUserAndReason(ctx context.Context, userID uint, reason models.TransactionReason) (float64, error) {
	var total float64
	if err := r.db.WithContext(ctx).Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Where("reason = ?", reason).
		Select("COALESCE(SUM(amount_euro), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
