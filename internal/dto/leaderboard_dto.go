package dto

import (
	"time"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}

// LedgerEntryResponse serializes one reward ledger entry.
type LedgerEntryResponse struct {
	ID           uint                     `json:"id"`
	AssignmentID *uint                    `json:"assignment_id"`
	Points       int                      `json:"points"`
	AmountEuro   float64                  `json:"amount_euro"`
	Reason       models.TransactionReason `json:"reason"`
	Note         string                   `json:"note"`
	CreatedAt    time.Time                `json:"created_at"`
}

// NewLedgerEntryResponseSlice converts ledger entries for client use.
func NewLedgerEntryResponseSlice(entries []models.PointTransaction) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, LedgerEntryResponse{
			ID:           entry.ID,
			AssignmentID: entry.AssignmentID,
			Points:       entry.Points,
			AmountEuro:   entry.AmountEuro,
			Reason:       entry.Reason,
			Note:         entry.Note,
			CreatedAt:    entry.CreatedAt,
		})
	}
	return responses
}

// BadgeResponse serializes an earned badge.
type BadgeResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	AwardedAt time.Time `json:"awarded_at"`
}

// NewBadgeResponseSlice converts badge awards for client use.
func NewBadgeResponseSlice(awards []models.UserBadge) []BadgeResponse {
	responses := make([]BadgeResponse, 0, len(awards))
	for _, award := range awards {
		responses = append(responses, BadgeResponse{
			Code:      award.Badge.Code,
			Name:      award.Badge.Name,
			AwardedAt: award.AwardedAt,
		})
	}
	return responses
}
