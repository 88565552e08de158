package models

import (
	"strings"
	"time"
)

// WordTap records that a student looked up a word inside a news-article
// assignment. The composite unique index is what makes repeat-tap detection
// a key lookup instead of a substring scan over ledger notes.
type WordTap struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_word_tap_assignment_word" json:"assignment_id"`
	Word         string    `gorm:"size:128;not null;uniqueIndex:idx_word_tap_assignment_word" json:"word"`
	TapCount     int       `gorm:"not null;default:1" json:"tap_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeWord lowercases and trims a tapped word so that "Haus," and
// "haus" count as the same lookup.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(word), ".,;:!?\"'()[]"))
}
