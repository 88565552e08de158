package dto

import "time"

// ReclaimRequest asks to buy back a failed or lapsed assignment.
type ReclaimRequest struct {
	AssignmentID uint `json:"assignmentId" validate:"required,gt=0"`
}

// ReclaimResponse reports the result of a marketplace purchase.
type ReclaimResponse struct {
	Success          bool      `json:"success"`
	AssignmentID     uint      `json:"assignment_id"`
	PricePaid        float64   `json:"price_paid"`
	RemainingSavings float64   `json:"remaining_savings"`
	NewDeadline      time.Time `json:"new_deadline"`
}

// SavingsResponse reports a student's spendable balance.
type SavingsResponse struct {
	Earned    float64 `json:"earned"`
	Spent     float64 `json:"spent"`
	Available float64 `json:"available"`
}
