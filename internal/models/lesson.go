package models

import (
	"time"

	"gorm.io/datatypes"
)

// LessonType enumerates the closed set of authoring formats.
type LessonType string

const (
	LessonTypeStandard        LessonType = "STANDARD"
	LessonTypeMultiChoice     LessonType = "MULTI_CHOICE"
	LessonTypeFlashcard       LessonType = "FLASHCARD"
	LessonTypeComposer        LessonType = "COMPOSER"
	LessonTypeFlipper         LessonType = "FLIPPER"
	LessonTypeNewsArticle     LessonType = "NEWS_ARTICLE"
	LessonTypeArkaning        LessonType = "ARKANING"
	LessonTypeLearningSession LessonType = "LEARNING_SESSION"
	LessonTypeLyric           LessonType = "LYRIC"
)

// Valid reports whether t is a known lesson type.
func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeStandard, LessonTypeMultiChoice, LessonTypeFlashcard,
		LessonTypeComposer, LessonTypeFlipper, LessonTypeNewsArticle,
		LessonTypeArkaning, LessonTypeLearningSession, LessonTypeLyric:
		return true
	}
	return false
}

// NotificationMode controls what happens when a lesson is published.
type NotificationMode string

const (
	NotifyModeNotAssigned     NotificationMode = "NOT_ASSIGNED"
	NotifyModeAssignSilent    NotificationMode = "ASSIGN_WITHOUT_NOTIFICATION"
	NotifyModeAssignOnDate    NotificationMode = "ASSIGN_ON_DATE"
	NotifyModeAssignAndNotify NotificationMode = "ASSIGN_AND_NOTIFY"
)

// Lesson is a teacher-authored unit of work. Content carries the
// type-agnostic body (questions, cards, steps) as opaque JSON; the
// game-like types additionally own exactly one config sub-record.
type Lesson struct {
	ID                      uint             `gorm:"primaryKey" json:"id"`
	TeacherID               uint             `gorm:"index;not null" json:"teacher_id"`
	Type                    LessonType       `gorm:"size:32;not null" json:"type"`
	Title                   string           `gorm:"size:255;not null" json:"title"`
	Price                   float64          `gorm:"not null;default:0" json:"price"`
	Difficulty              int              `gorm:"not null;default:1" json:"difficulty"`
	NotificationMode        NotificationMode `gorm:"size:48;not null;default:NOT_ASSIGNED" json:"notification_mode"`
	ScheduledAssignmentDate *time.Time       `json:"scheduled_assignment_date"`
	Content                 datatypes.JSON   `gorm:"type:json" json:"content"`
	AttachmentURL           string           `gorm:"size:512" json:"attachment_url"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`

	ArkaningConfig    *ArkaningConfig    `gorm:"constraint:OnDelete:CASCADE" json:"arkaning_config,omitempty"`
	FlipperConfig     *FlipperConfig     `gorm:"constraint:OnDelete:CASCADE" json:"flipper_config,omitempty"`
	ComposerConfig    *ComposerConfig    `gorm:"constraint:OnDelete:CASCADE" json:"composer_config,omitempty"`
	NewsArticleConfig *NewsArticleConfig `gorm:"constraint:OnDelete:CASCADE" json:"news_article_config,omitempty"`
}

// ArkaningConfig holds per-round reward rates for the reflex game.
type ArkaningConfig struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	LessonID         uint    `gorm:"uniqueIndex;not null" json:"lesson_id"`
	PointsPerCorrect int     `gorm:"not null;default:10" json:"points_per_correct"`
	EurosPerCorrect  float64 `gorm:"not null;default:1" json:"euros_per_correct"`
}

// FlipperConfig holds the attempt budget for the tile-matching game.
// AttemptThreshold is never below 3.
type FlipperConfig struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	LessonID         uint `gorm:"uniqueIndex;not null" json:"lesson_id"`
	AttemptThreshold int  `gorm:"not null;default:3" json:"attempt_threshold"`
}

// ComposerConfig holds the hidden sentence and the tries cap.
type ComposerConfig struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	LessonID uint   `gorm:"uniqueIndex;not null" json:"lesson_id"`
	Sentence string `gorm:"size:1024;not null" json:"sentence"`
	MaxTries int    `gorm:"not null;default:3" json:"max_tries"`
}

// NewsArticleConfig holds the word-tap reward schedule and cap.
type NewsArticleConfig struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	LessonID        uint `gorm:"uniqueIndex;not null" json:"lesson_id"`
	MaxWordTaps     int  `gorm:"not null;default:20" json:"max_word_taps"`
	FirstTapPoints  int  `gorm:"not null;default:10" json:"first_tap_points"`
	RepeatTapPoints int  `gorm:"not null;default:2" json:"repeat_tap_points"`
}

// NeedsConfig reports whether the lesson type requires a config sub-record.
func (t LessonType) NeedsConfig() bool {
	switch t {
	case LessonTypeArkaning, LessonTypeFlipper, LessonTypeComposer, LessonTypeNewsArticle:
		return true
	}
	return false
}

// ShouldAutoAssign reports whether publishing the lesson creates assignments
// right away. ASSIGN_ON_DATE lessons wait for the scheduler instead.
func (l Lesson) ShouldAutoAssign() bool {
	return l.NotificationMode == NotifyModeAssignSilent || l.NotificationMode == NotifyModeAssignAndNotify
}
