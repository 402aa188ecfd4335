package learning

import (
	"context"
	"errors"
	"fmt"
	"log"

	"learnsphere/models"
	courseModels "learnsphere/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizResult is returned by SubmitQuiz.
type QuizResult struct {
	Score         int                      `json:"score"`
	TotalPoints   int                      `json:"total_points"`
	Passed        bool                     `json:"passed"`
	Attempt       courseModels.QuizAttempt `json:"attempt"`
	PointsAwarded int                      `json:"points_awarded"`
	AttemptNumber int                      `json:"attempt_number"`
}

// LessonQuiz is the learner-facing view of a lesson's quiz.
type LessonQuiz struct {
	LessonID  uint                        `json:"lesson_id"`
	Title     string                      `json:"title"`
	Module    *courseModels.Module        `json:"module,omitempty"`
	MaxPoints int                         `json:"max_points"`
	Rewards   courseModels.RewardTiers    `json:"rewards"`
	Questions []courseModels.QuizQuestion `json:"questions"`
}

// SubmitQuiz grades a submission, records it as the learner's next attempt and
// credits the reward tier for that attempt if this is the learner's first pass.
func (s *Service) SubmitQuiz(ctx context.Context, userID, lessonID uint, answers map[string]any) (*QuizResult, error) {
	db := s.db.WithContext(ctx)

	if err := db.Select("id").Where("id = ? AND is_deleted = ?", userID, false).First(&models.User{}).Error; err != nil {
		return nil, lookupErr(err, "learner", userID)
	}
	lesson, err := s.findQuizLesson(db, lessonID)
	if err != nil {
		return nil, err
	}
	questions, err := s.lessonQuestions(db, lessonID)
	if err != nil {
		return nil, err
	}

	verdict := Grade(questions, answers)
	tiers := lesson.Rewards()

	unlock := s.locks.Lock(attemptKey(userID, lessonID))
	defer unlock()

	result := &QuizResult{
		Score:       verdict.Score,
		TotalPoints: verdict.MaxPoints,
		Passed:      verdict.Passed,
	}
	var credited creditResult

	err = db.Transaction(func(tx *gorm.DB) error {
		// The learner row is the per-learner serialization point across processes.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", userID).First(&models.User{}).Error; err != nil {
			return lookupErr(err, "learner", userID)
		}

		var prior int64
		if err := tx.Model(&courseModels.QuizAttempt{}).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			Count(&prior).Error; err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}

		attempt := courseModels.QuizAttempt{
			UserID:        userID,
			LessonID:      lessonID,
			AttemptNumber: int(prior) + 1,
			Score:         verdict.Score,
			MaxScore:      verdict.MaxPoints,
			Passed:        verdict.Passed,
			Answers:       datatypes.JSONMap(answers),
			CreatedAt:     s.now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
		result.Attempt = attempt
		result.AttemptNumber = attempt.AttemptNumber

		if !verdict.Passed {
			return nil
		}

		award := tiers.ForAttempt(attempt.AttemptNumber)
		marker := courseModels.QuizFirstPass{
			UserID:        userID,
			LessonID:      lessonID,
			AttemptID:     attempt.ID,
			AttemptNumber: attempt.AttemptNumber,
			PointsAwarded: award,
			CreatedAt:     s.now(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker)
		if res.Error != nil {
			return fmt.Errorf("record first pass: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Passed before; the reward was already decided then.
			return nil
		}

		c, err := s.credit(tx, userID, models.PointSourceQuizFirstPass, lessonID, award)
		if err != nil {
			return err
		}
		if c.Credited {
			result.PointsAwarded = award
			credited = c
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submit quiz for lesson %d: %w", lessonID, err)
	}

	log.Printf("[QUIZ] user %d lesson %d attempt #%d score %d/%d passed=%t awarded=%d",
		userID, lessonID, result.AttemptNumber, result.Score, result.TotalPoints, result.Passed, result.PointsAwarded)

	s.announcePromotion(ctx, userID, credited)
	return result, nil
}

// QuizForLearner returns the lesson's questions without their answers.
func (s *Service) QuizForLearner(ctx context.Context, lessonID uint) (*LessonQuiz, error) {
	db := s.db.WithContext(ctx)

	lesson, err := s.findQuizLesson(db, lessonID)
	if err != nil {
		return nil, err
	}
	questions, err := s.lessonQuestions(db, lessonID)
	if err != nil {
		return nil, err
	}

	quiz := &LessonQuiz{
		LessonID:  lesson.ID,
		Title:     lesson.Title,
		Rewards:   lesson.Rewards(),
		Questions: questions,
	}
	if lesson.ModuleID != 0 {
		var module courseModels.Module
		err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", lesson.ModuleID, lesson.CourseID, false).
			First(&module).Error
		switch {
		case err == nil:
			quiz.Module = &module
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load module %d: %w", lesson.ModuleID, err)
		}
	}
	for i := range quiz.Questions {
		quiz.MaxPoints += quiz.Questions[i].Points
		quiz.Questions[i].CorrectAnswer = ""
	}
	return quiz, nil
}

// Attempts lists a learner's attempts on a lesson, newest first.
func (s *Service) Attempts(ctx context.Context, userID, lessonID uint) ([]courseModels.QuizAttempt, error) {
	var attempts []courseModels.QuizAttempt
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("attempt_number desc").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// findQuizLesson is the learner-facing lookup: only published, live QUIZ
// lessons exist for grading and reading.
func (s *Service) findQuizLesson(db *gorm.DB, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND lesson_type = ? AND is_published = ? AND is_deleted = ?",
		lessonID, courseModels.LessonTypeQuiz, true, false).First(&lesson).Error; err != nil {
		return nil, lookupErr(err, "quiz lesson", lessonID)
	}
	return &lesson, nil
}

// findLesson reaches any live lesson, published or not, for authoring.
func (s *Service) findLesson(db *gorm.DB, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return nil, lookupErr(err, "lesson", lessonID)
	}
	return &lesson, nil
}

func (s *Service) lessonQuestions(db *gorm.DB, lessonID uint) ([]courseModels.QuizQuestion, error) {
	var questions []courseModels.QuizQuestion
	if err := db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Order("order_index asc, id asc").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("load questions for lesson %d: %w", lessonID, err)
	}
	return questions, nil
}
