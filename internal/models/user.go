package models

import "time"

// User roles recognised by the API.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a teacher, student or administrator account.
// TotalPoints is a denormalized running total of the user's ledger entries;
// it must only ever be written by the ledger repository, inside the same
// transaction that appends the corresponding PointTransaction row.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role        string    `gorm:"size:32;not null;default:student" json:"role"`
	TeacherID   *uint     `gorm:"index" json:"teacher_id"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsTeacher reports whether the user may author lessons and grade work.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
