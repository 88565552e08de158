package models

import "time"

// Badge is a gamification milestone awarded once a user's point total
// crosses MinPoints. BonusPoints are paid out through the ledger with the
// BADGE_BONUS reason when the badge is earned.
type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:128;not null" json:"name"`
	MinPoints   int    `gorm:"not null" json:"min_points"`
	BonusPoints int    `gorm:"not null;default:0" json:"bonus_points"`
}

// UserBadge links an earned badge to a user exactly once.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`

	Badge Badge `gorm:"constraint:OnDelete:CASCADE" json:"badge"`
}

// DefaultBadges seeds the badge catalog at boot when the table is empty.
func DefaultBadges() []Badge {
	return []Badge{
		{Code: "first-steps", Name: "First Steps", MinPoints: 100, BonusPoints: 10},
		{Code: "rising-star", Name: "Rising Star", MinPoints: 500, BonusPoints: 25},
		{Code: "scholar", Name: "Scholar", MinPoints: 1000, BonusPoints: 50},
		{Code: "legend", Name: "Legend", MinPoints: 5000, BonusPoints: 100},
	}
}
