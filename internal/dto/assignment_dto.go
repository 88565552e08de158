package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// AssignRequest describes the payload for assigning a lesson. When
// StudentIDs is empty the lesson is assigned to all of the teacher's
// students. A missing deadline falls back to the default window.
type AssignRequest struct {
	StudentIDs []uint     `json:"student_ids" validate:"omitempty,dive,gt=0"`
	Deadline   *time.Time `json:"deadline"`
	Notify     bool       `json:"notify"`
}

// GradeRequest carries a teacher's grading decision.
type GradeRequest struct {
	Score           float64 `json:"score" validate:"gte=0,lte=100"`
	TeacherComments string  `json:"teacher_comments" validate:"omitempty,max=2000"`
	ExtraPoints     int     `json:"extra_points" validate:"gte=0"`
}

// AssignmentFilter describes query string filters for listing assignments.
type AssignmentFilter struct {
	LessonID *uint                    `query:"lesson_id"`
	Status   *models.AssignmentStatus `query:"status" validate:"omitempty,oneof=PENDING COMPLETED GRADED FAILED"`
}

// LessonLite summarizes a lesson inside assignment responses.
type LessonLite struct {
	ID    uint              `json:"id"`
	Type  models.LessonType `json:"type"`
	Title string            `json:"title"`
	Price float64           `json:"price"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID                  uint                    `json:"id"`
	LessonID            uint                    `json:"lesson_id"`
	StudentID           uint                    `json:"student_id"`
	Status              models.AssignmentStatus `json:"status"`
	Deadline            time.Time               `json:"deadline"`
	OriginalDeadline    time.Time               `json:"original_deadline"`
	StartDate           time.Time               `json:"start_date"`
	Answers             datatypes.JSON          `json:"answers"`
	Score               *float64                `json:"score"`
	TeacherComments     string                  `json:"teacher_comments"`
	PointsAwarded       int                     `json:"points_awarded"`
	ExtraPoints         int                     `json:"extra_points"`
	GradedAt            *time.Time              `json:"graded_at"`
	NewsArticleTapCount int                     `json:"news_article_tap_count"`
	ComposerTries       int                     `json:"composer_tries"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
	Lesson              LessonLite              `json:"lesson"`
	Student             StudentLite             `json:"student"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                  model.ID,
		LessonID:            model.LessonID,
		StudentID:           model.StudentID,
		Status:              model.Status,
		Deadline:            model.Deadline,
		OriginalDeadline:    model.OriginalDeadline,
		StartDate:           model.StartDate,
		Answers:             model.Answers,
		Score:               model.Score,
		TeacherComments:     model.TeacherComments,
		PointsAwarded:       model.PointsAwarded,
		ExtraPoints:         model.ExtraPoints,
		GradedAt:            model.GradedAt,
		NewsArticleTapCount: model.NewsArticleTapCount,
		ComposerTries:       model.ComposerTries,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
		Lesson: LessonLite{
			ID:    model.Lesson.ID,
			Type:  model.Lesson.Type,
			Title: model.Lesson.Title,
			Price: model.Lesson.Price,
		},
		Student: StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		},
	}
}

// NewAssignmentResponseSlice converts a list of assignments.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}
	return responses
}

// AssignResult reports the outcome of an assign operation.
type AssignResult struct {
	Created []AssignmentResponse `json:"created"`
	Skipped []uint               `json:"skipped"`
}
