package models

import "time"

// TransactionReason tags every ledger entry with why it was written.
type TransactionReason string

const (
	ReasonAssignmentGraded    TransactionReason = "ASSIGNMENT_GRADED"
	ReasonArkaningGame        TransactionReason = "ARKANING_GAME"
	ReasonFlipperMatch        TransactionReason = "FLIPPER_MATCH"
	ReasonNewsArticleTap      TransactionReason = "NEWS_ARTICLE_TAP"
	ReasonMarketplacePurchase TransactionReason = "MARKETPLACE_PURCHASE"
	ReasonBadgeBonus          TransactionReason = "BADGE_BONUS"
	ReasonManualAdjustment    TransactionReason = "MANUAL_ADJUSTMENT"
)

// PointTransaction is one immutable entry in the reward ledger. Entries are
// never updated or deleted; corrections are new offsetting entries. The sum
// of a user's Points column must always equal User.TotalPoints.
type PointTransaction struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uint              `gorm:"index;not null" json:"user_id"`
	AssignmentID *uint             `gorm:"index" json:"assignment_id"`
	Points       int               `gorm:"not null" json:"points"`
	AmountEuro   float64           `gorm:"not null" json:"amount_euro"`
	Reason       TransactionReason `gorm:"size:32;index;not null" json:"reason"`
	Note         string            `gorm:"size:512" json:"note"`
	CreatedAt    time.Time         `json:"created_at"`
}
