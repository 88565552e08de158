package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lessonhub/lessonhub-api/internal/models"
)

// ArkaningConfigPayload carries per-round reward rates for the reflex game.
type ArkaningConfigPayload struct {
	PointsPerCorrect int     `json:"points_per_correct" validate:"required,gt=0"`
	EurosPerCorrect  float64 `json:"euros_per_correct" validate:"required,gt=0"`
}

// FlipperConfigPayload carries the attempt budget for the tile game.
type FlipperConfigPayload struct {
	AttemptThreshold int `json:"attempt_threshold" validate:"required,gte=3"`
}

// ComposerConfigPayload carries the hidden sentence and tries cap.
type ComposerConfigPayload struct {
	Sentence string `json:"sentence" validate:"required,min=1"`
	MaxTries int    `json:"max_tries" validate:"required,gte=1"`
}

// NewsArticleConfigPayload carries the word-tap reward schedule.
type NewsArticleConfigPayload struct {
	MaxWordTaps     int `json:"max_word_taps" validate:"required,gte=1"`
	FirstTapPoints  int `json:"first_tap_points" validate:"required,gte=1"`
	RepeatTapPoints int `json:"repeat_tap_points" validate:"gte=0"`
}

// LessonCreateRequest describes the payload for authoring a lesson.
type LessonCreateRequest struct {
	Type                    models.LessonType         `json:"type" validate:"required"`
	Title                   string                    `json:"title" validate:"required,min=3,max=255"`
	Price                   float64                   `json:"price" validate:"gte=0"`
	Difficulty              int                       `json:"difficulty" validate:"omitempty,gte=1,lte=5"`
	NotificationMode        models.NotificationMode   `json:"notification_mode" validate:"omitempty,oneof=NOT_ASSIGNED ASSIGN_WITHOUT_NOTIFICATION ASSIGN_ON_DATE ASSIGN_AND_NOTIFY"`
	ScheduledAssignmentDate *time.Time                `json:"scheduled_assignment_date"`
	Content                 datatypes.JSON            `json:"content"`
	ArkaningConfig          *ArkaningConfigPayload    `json:"arkaning_config"`
	FlipperConfig           *FlipperConfigPayload     `json:"flipper_config"`
	ComposerConfig          *ComposerConfigPayload    `json:"composer_config"`
	NewsArticleConfig       *NewsArticleConfigPayload `json:"news_article_config"`
}

// LessonUpdateRequest carries teacher edits to an existing lesson.
type LessonUpdateRequest struct {
	Title                   *string                  `json:"title" validate:"omitempty,min=3,max=255"`
	Price                   *float64                 `json:"price" validate:"omitempty,gte=0"`
	Difficulty              *int                     `json:"difficulty" validate:"omitempty,gte=1,lte=5"`
	NotificationMode        *models.NotificationMode `json:"notification_mode" validate:"omitempty,oneof=NOT_ASSIGNED ASSIGN_WITHOUT_NOTIFICATION ASSIGN_ON_DATE ASSIGN_AND_NOTIFY"`
	ScheduledAssignmentDate *time.Time               `json:"scheduled_assignment_date"`
	Content                 datatypes.JSON           `json:"content"`
}

// LessonFilter describes query string filters for the catalog listing.
type LessonFilter struct {
	Type     *models.LessonType `query:"type"`
	Search   string             `query:"search"`
	Page     int                `query:"page"`
	PageSize int                `query:"page_size"`
}

// LessonResponse is returned to API clients when viewing lessons.
type LessonResponse struct {
	ID                      uint                      `json:"id"`
	TeacherID               uint                      `json:"teacher_id"`
	Type                    models.LessonType         `json:"type"`
	Title                   string                    `json:"title"`
	Price                   float64                   `json:"price"`
	Difficulty              int                       `json:"difficulty"`
	NotificationMode        models.NotificationMode   `json:"notification_mode"`
	ScheduledAssignmentDate *time.Time                `json:"scheduled_assignment_date"`
	Content                 datatypes.JSON            `json:"content"`
	AttachmentURL           string                    `json:"attachment_url"`
	ArkaningConfig          *ArkaningConfigPayload    `json:"arkaning_config,omitempty"`
	FlipperConfig           *FlipperConfigPayload     `json:"flipper_config,omitempty"`
	ComposerConfig          *ComposerConfigPayload    `json:"composer_config,omitempty"`
	NewsArticleConfig       *NewsArticleConfigPayload `json:"news_article_config,omitempty"`
	CreatedAt               time.Time                 `json:"created_at"`
	UpdatedAt               time.Time                 `json:"updated_at"`
}

// NewLessonResponse converts a Lesson model into a DTO.
func NewLessonResponse(model models.Lesson) LessonResponse {
	response := LessonResponse{
		ID:                      model.ID,
		TeacherID:               model.TeacherID,
		Type:                    model.Type,
		Title:                   model.Title,
		Price:                   model.Price,
		Difficulty:              model.Difficulty,
		NotificationMode:        model.NotificationMode,
		ScheduledAssignmentDate: model.ScheduledAssignmentDate,
		Content:                 model.Content,
		AttachmentURL:           model.AttachmentURL,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}

	if model.ArkaningConfig != nil {
		response.ArkaningConfig = &ArkaningConfigPayload{
			PointsPerCorrect: model.ArkaningConfig.PointsPerCorrect,
			EurosPerCorrect:  model.ArkaningConfig.EurosPerCorrect,
		}
	}
	if model.FlipperConfig != nil {
		response.FlipperConfig = &FlipperConfigPayload{
			AttemptThreshold: model.FlipperConfig.AttemptThreshold,
		}
	}
	if model.ComposerConfig != nil {
		response.ComposerConfig = &ComposerConfigPayload{
			Sentence: model.ComposerConfig.Sentence,
			MaxTries: model.ComposerConfig.MaxTries,
		}
	}
	if model.NewsArticleConfig != nil {
		response.NewsArticleConfig = &NewsArticleConfigPayload{
			MaxWordTaps:     model.NewsArticleConfig.MaxWordTaps,
			FirstTapPoints:  model.NewsArticleConfig.FirstTapPoints,
			RepeatTapPoints: model.NewsArticleConfig.RepeatTapPoints,
		}
	}

	return response
}

// NewLessonResponseSlice converts a list of lessons.
func NewLessonResponseSlice(lessons []models.Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		responses = append(responses, NewLessonResponse(lesson))
	}
	return responses
}
