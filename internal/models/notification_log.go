package models

import "time"

// Notification kinds written to the log.
const (
	NotificationKindAssigned = "assigned"
	NotificationKindReminder = "reminder"
	NotificationKindFailed   = "failed"
	NotificationKindGraded   = "graded"
)

// Notification delivery outcomes.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationLog records every transactional email the system attempted.
// Delivery is fire-and-forget: a failed send is logged here but never rolls
// back the core transaction. The scheduled notifier also reads this table to
// keep reminder runs idempotent.
type NotificationLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	AssignmentID *uint     `gorm:"index" json:"assignment_id"`
	Kind         string    `gorm:"size:32;index;not null" json:"kind"`
	Recipient    string    `gorm:"size:255;not null" json:"recipient"`
	Subject      string    `gorm:"size:255" json:"subject"`
	Status       string    `gorm:"size:16;not null" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
