package learning

import (
	"context"
	"fmt"
	"log"
	"strings"

	courseModels "learnsphere/models/course"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

var validate = validator.New()

// QuestionInput is an admin-authored quiz question.
type QuestionInput struct {
	QuestionText  string   `json:"question_text" validate:"required,max=2000"`
	Options       []string `json:"options" validate:"required,min=2,max=10,unique,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Points        int      `json:"points" validate:"gte=1,lte=1000"`
	OrderIndex    int      `json:"order_index" validate:"gte=0"`
}

// Validate checks field constraints and that the correct answer is one of the options.
func (in *QuestionInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuestion, err)
	}
	for _, opt := range in.Options {
		if opt == in.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct_answer %q is not one of the options", ErrInvalidQuestion, in.CorrectAnswer)
}

// AddQuestion attaches a new question to a lesson.
func (s *Service) AddQuestion(ctx context.Context, lessonID uint, in QuestionInput) (*courseModels.QuizQuestion, error) {
	in.QuestionText = strings.TrimSpace(in.QuestionText)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if _, err := s.findLesson(db, lessonID); err != nil {
		return nil, err
	}

	question := courseModels.QuizQuestion{
		LessonID:      lessonID,
		QuestionText:  in.QuestionText,
		Options:       datatypes.JSONSlice[string](in.Options),
		CorrectAnswer: in.CorrectAnswer,
		Points:        in.Points,
		OrderIndex:    in.OrderIndex,
	}
	if err := db.Create(&question).Error; err != nil {
		return nil, fmt.Errorf("create question for lesson %d: %w", lessonID, err)
	}

	log.Printf("[QUIZ] question %d added to lesson %d (%d points)", question.ID, lessonID, question.Points)
	return &question, nil
}

// SetRewardSchedule replaces a lesson's reward schedule. Unset buckets fall
// back to the defaults; negative awards are rejected.
func (s *Service) SetRewardSchedule(ctx context.Context, lessonID uint, schedule courseModels.RewardSchedule) (courseModels.RewardTiers, error) {
	buckets := []struct {
		name  string
		value *int
	}{
		{"first", schedule.First},
		{"second", schedule.Second},
		{"third", schedule.Third},
		{"other", schedule.Other},
	}
	for _, b := range buckets {
		if b.value != nil && *b.value < 0 {
			return courseModels.RewardTiers{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidSchedule, b.name)
		}
	}

	db := s.db.WithContext(ctx)
	lesson, err := s.findLesson(db, lessonID)
	if err != nil {
		return courseModels.RewardTiers{}, err
	}

	settings := lesson.Settings.Data()
	settings.Rewards = &schedule
	if err := db.Model(&courseModels.Lesson{}).
		Where("id = ?", lessonID).
		Update("settings", datatypes.NewJSONType(settings)).Error; err != nil {
		return courseModels.RewardTiers{}, fmt.Errorf("save reward schedule for lesson %d: %w", lessonID, err)
	}

	tiers := schedule.Resolve()
	log.Printf("[QUIZ] lesson %d rewards set to %d/%d/%d/%d", lessonID, tiers.First, tiers.Second, tiers.Third, tiers.Other)
	return tiers, nil
}
