package dto

// Arkaning round outcomes.
const (
	ArkaningOutcomeCorrect = "correct"
	ArkaningOutcomeWrong   = "wrong"
)

// ArkaningRoundRequest posts the outcome of one reflex-game round.
type ArkaningRoundRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=correct wrong"`
}

// FlipperMatchRequest posts the attempt count it took to match a tile pair.
type FlipperMatchRequest struct {
	Attempts int    `json:"attempts" validate:"required,gte=1"`
	Word     string `json:"word" validate:"omitempty,max=128"`
}

// NewsArticleTapRequest posts a vocabulary lookup inside an article.
type NewsArticleTapRequest struct {
	Word string `json:"word" validate:"required,min=1,max=128"`
}

// RewardResponse reports the points and euros movement of a game action
// together with the user's new running total.
type RewardResponse struct {
	PointsDelta int     `json:"pointsDelta"`
	EurosDelta  float64 `json:"eurosDelta"`
	TotalPoints int     `json:"totalPoints"`
	TapCount    *int    `json:"tapCount,omitempty"`
}
