package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// statuses; anything else is treated as an internal error.
var (
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrInvalidLessonPayload = errors.New("invalid lesson payload")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrForbidden            = errors.New("not allowed to access this resource")
	ErrLessonTypeMismatch   = errors.New("assignment lesson type does not match this endpoint")
	ErrLessonConfigMissing  = errors.New("lesson is missing its type-specific configuration")
	ErrDeadlinePassed       = errors.New("assignment deadline has passed")
	ErrAlreadySubmitted     = errors.New("assignment has already been submitted")
	ErrNotGradable          = errors.New("assignment is not awaiting grading")
	ErrTapLimitReached      = errors.New("word tap limit reached for this assignment")
	ErrNoTriesLeft          = errors.New("no composer tries left")
	ErrNotEligible          = errors.New("assignment is not eligible for marketplace reclaim")
	ErrAlreadyPurchased     = errors.New("assignment has already been repurchased")
	ErrInsufficientSavings  = errors.New("not enough savings to repurchase this lesson")
	ErrIncompleteSubmission = errors.New("submission does not answer every question")
)
