package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssignmentStatus is the lifecycle state of one (lesson, student) pairing.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
	AssignmentStatusGraded    AssignmentStatus = "GRADED"
	AssignmentStatusFailed    AssignmentStatus = "FAILED"
)

// Assignment binds a lesson to a student and carries the submitted work.
// At most one row exists per (lesson, student); a marketplace reclaim
// resets the row in place rather than creating a second one.
type Assignment struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	LessonID            uint             `gorm:"not null;uniqueIndex:idx_assignment_lesson_student" json:"lesson_id"`
	StudentID           uint             `gorm:"not null;uniqueIndex:idx_assignment_lesson_student" json:"student_id"`
	Status              AssignmentStatus `gorm:"size:16;not null;default:PENDING" json:"status"`
	Deadline            time.Time        `gorm:"not null" json:"deadline"`
	OriginalDeadline    time.Time        `gorm:"not null" json:"original_deadline"`
	StartDate           time.Time        `gorm:"not null" json:"start_date"`
	Answers             datatypes.JSON   `gorm:"type:json" json:"answers"`
	Score               *float64         `json:"score"`
	TeacherComments     string           `gorm:"type:text" json:"teacher_comments"`
	PointsAwarded       int              `gorm:"not null;default:0" json:"points_awarded"`
	ExtraPoints         int              `gorm:"not null;default:0" json:"extra_points"`
	GradedAt            *time.Time       `json:"graded_at"`
	NewsArticleTapCount int              `gorm:"not null;default:0" json:"news_article_tap_count"`
	ComposerTries       int              `gorm:"not null;default:0" json:"composer_tries"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`

	Lesson  Lesson `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lesson"`
	Student User   `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// CanTransition reports whether moving from the current status to next is a
// legal lifecycle edge. The marketplace reset edge (FAILED or past-due
// PENDING back to PENDING) is validated separately because it also depends
// on the deadline.
func (a Assignment) CanTransition(next AssignmentStatus) bool {
	switch a.Status {
	case AssignmentStatusPending:
		return next == AssignmentStatusCompleted || next == AssignmentStatusFailed
	case AssignmentStatusCompleted:
		return next == AssignmentStatusGraded
	}
	return false
}

// IsPastDue reports whether the deadline has passed at the reference time.
// Submitting exactly at the deadline is still on time.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.Deadline)
}

// IsReclaimable reports whether the assignment qualifies for a marketplace
// buy-back: either it already failed, or it is pending and the deadline has
// been reached. Unlike submission, reaching the exact deadline instant
// already opens the buy-back.
func (a Assignment) IsReclaimable(reference time.Time) bool {
	if a.Status == AssignmentStatusFailed {
		return true
	}
	return a.Status == AssignmentStatusPending && !reference.Before(a.Deadline)
}
