package models

import "time"

// LyricAttempt records one play-through of a lyric lesson. Attempts live in
// their own table instead of mutating Assignment.Answers; the assignment is
// flipped to COMPLETED only once an attempt arrives with a score.
type LyricAttempt struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AssignmentID     uint      `gorm:"index;not null" json:"assignment_id"`
	ScorePercent     *float64  `json:"score_percent"`
	TimeTakenSeconds int       `gorm:"not null;default:0" json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}
