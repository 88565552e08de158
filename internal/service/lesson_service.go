package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
)

// LessonService manages the teacher-facing lesson catalog.
type LessonService interface {
	Create(ctx context.Context, teacherID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error)
	List(ctx context.Context, teacherID uint, filter dto.LessonFilter) ([]dto.LessonResponse, int64, error)
	Get(ctx context.Context, id uint) (dto.LessonResponse, error)
	Update(ctx context.Context, id, teacherID uint, payload dto.LessonUpdateRequest) (dto.LessonResponse, error)
	Delete(ctx context.Context, id, teacherID uint) error
	SetAttachment(ctx context.Context, id, teacherID uint, url string) (dto.LessonResponse, error)
}

type lessonService struct {
	lessons   repository.LessonRepository
	assigner  AssignmentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLessonService constructs a LessonService instance. The assigner handles
// the publish-time assignment modes.
func NewLessonService(lessons repository.LessonRepository, assigner AssignmentService, validate *validator.Validate, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:   lessons,
		assigner:  assigner,
		validator: validate,
		logger:    logger.With().Str("component", "lesson_service").Logger(),
	}
}

func (s *lessonService) Create(ctx context.Context, teacherID uint, payload dto.LessonCreateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	if !payload.Type.Valid() {
		return dto.LessonResponse{}, fmt.Errorf("%w: unknown lesson type %q", ErrInvalidLessonPayload, payload.Type)
	}

	if err := checkConfigForType(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson := models.Lesson{
		TeacherID:               teacherID,
		Type:                    payload.Type,
		Title:                   payload.Title,
		Price:                   payload.Price,
		Difficulty:              payload.Difficulty,
		NotificationMode:        payload.NotificationMode,
		ScheduledAssignmentDate: payload.ScheduledAssignmentDate,
		Content:                 payload.Content,
	}
	if lesson.Difficulty == 0 {
		lesson.Difficulty = 1
	}
	if lesson.NotificationMode == "" {
		lesson.NotificationMode = models.NotifyModeNotAssigned
	}

	attachConfigs(&lesson, payload)

	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	created, err := s.lessons.GetByID(ctx, lesson.ID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	// ASSIGN_WITHOUT_NOTIFICATION and ASSIGN_AND_NOTIFY hand the lesson to
	// the whole class at publish time. Whether mail goes out is decided by
	// the assigner from the notification mode.
	if created.ShouldAutoAssign() {
		if _, err := s.assigner.Assign(ctx, created.ID, teacherID, dto.AssignRequest{}); err != nil {
			return dto.LessonResponse{}, err
		}
	}

	s.logger.Info().Uint("lesson_id", created.ID).Str("type", string(created.Type)).Msg("lesson created")

	return dto.NewLessonResponse(created), nil
}

// checkConfigForType enforces the one-config-per-game-type seam: game types
// must carry exactly their own config and nothing else.
func checkConfigForType(payload dto.LessonCreateRequest) error {
	var want string
	provided := map[string]bool{
		"arkaning":     payload.ArkaningConfig != nil,
		"flipper":      payload.FlipperConfig != nil,
		"composer":     payload.ComposerConfig != nil,
		"news_article": payload.NewsArticleConfig != nil,
	}

	switch payload.Type {
	case models.LessonTypeArkaning:
		want = "arkaning"
	case models.LessonTypeFlipper:
		want = "flipper"
	case models.LessonTypeComposer:
		want = "composer"
	case models.LessonTypeNewsArticle:
		want = "news_article"
	default:
		want = ""
	}

	for name, present := range provided {
		if name == want {
			if !present {
				return fmt.Errorf("%w: %s lessons require a %s_config", ErrInvalidLessonPayload, payload.Type, name)
			}
			continue
		}
		if present {
			return fmt.Errorf("%w: %s lessons must not carry a %s_config", ErrInvalidLessonPayload, payload.Type, name)
		}
	}

	return nil
}

func attachConfigs(lesson *models.Lesson, payload dto.LessonCreateRequest) {
	if payload.ArkaningConfig != nil {
		lesson.ArkaningConfig = &models.ArkaningConfig{
			PointsPerCorrect: payload.ArkaningConfig.PointsPerCorrect,
			EurosPerCorrect:  payload.ArkaningConfig.EurosPerCorrect,
		}
	}
	if payload.FlipperConfig != nil {
		threshold := payload.FlipperConfig.AttemptThreshold
		if threshold < 3 {
			threshold = 3
		}
		lesson.FlipperConfig = &models.FlipperConfig{AttemptThreshold: threshold}
	}
	if payload.ComposerConfig != nil {
		lesson.ComposerConfig = &models.ComposerConfig{
			Sentence: payload.ComposerConfig.Sentence,
			MaxTries: payload.ComposerConfig.MaxTries,
		}
	}
	if payload.NewsArticleConfig != nil {
		lesson.NewsArticleConfig = &models.NewsArticleConfig{
			MaxWordTaps:     payload.NewsArticleConfig.MaxWordTaps,
			FirstTapPoints:  payload.NewsArticleConfig.FirstTapPoints,
			RepeatTapPoints: payload.NewsArticleConfig.RepeatTapPoints,
		}
	}
}

func (s *lessonService) List(ctx context.Context, teacherID uint, filter dto.LessonFilter) ([]dto.LessonResponse, int64, error) {
	repoFilter := repository.LessonFilter{
		TeacherID: &teacherID,
		Type:      filter.Type,
		Search:    filter.Search,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}

	lessons, total, err := s.lessons.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewLessonResponseSlice(lessons), total, nil
}

func (s *lessonService) Get(ctx context.Context, id uint) (dto.LessonResponse, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Update(ctx context.Context, id, teacherID uint, payload dto.LessonUpdateRequest) (dto.LessonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.ownedLesson(ctx, id, teacherID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	if payload.Title != nil {
		lesson.Title = *payload.Title
	}
	if payload.Price != nil {
		lesson.Price = *payload.Price
	}
	if payload.Difficulty != nil {
		lesson.Difficulty = *payload.Difficulty
	}
	if payload.NotificationMode != nil {
		lesson.NotificationMode = *payload.NotificationMode
	}
	if payload.ScheduledAssignmentDate != nil {
		lesson.ScheduledAssignmentDate = payload.ScheduledAssignmentDate
	}
	if payload.Content != nil {
		lesson.Content = payload.Content
	}

	if err := s.lessons.Update(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.logger.Info().Uint("lesson_id", lesson.ID).Msg("lesson updated")

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Delete(ctx context.Context, id, teacherID uint) error {
	if _, err := s.ownedLesson(ctx, id, teacherID); err != nil {
		return err
	}

	if err := s.lessons.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	s.logger.Info().Uint("lesson_id", id).Msg("lesson deleted with its assignments")

	return nil
}

func (s *lessonService) SetAttachment(ctx context.Context, id, teacherID uint, url string) (dto.LessonResponse, error) {
	lesson, err := s.ownedLesson(ctx, id, teacherID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	lesson.AttachmentURL = url
	if err := s.lessons.Update(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) ownedLesson(ctx context.Context, id, teacherID uint) (models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	if lesson.TeacherID != teacherID {
		return models.Lesson{}, ErrForbidden
	}

	return lesson, nil
}
