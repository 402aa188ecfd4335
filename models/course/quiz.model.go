package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizQuestion is a single-answer question attached to a lesson.
type QuizQuestion struct {
	gorm.Model
	LessonID      uint                        `json:"lesson_id" gorm:"index;not null"`
	QuestionText  string                      `json:"question_text" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `json:"correct_answer,omitempty" gorm:"type:text;not null"`
	Points        int                         `json:"points" gorm:"not null;default:1"`
	OrderIndex    int                         `json:"order_index" gorm:"default:0"`
	IsDeleted     bool                        `json:"-" gorm:"default:false"`
}

// QuizAttempt is one graded submission. Rows are never updated or deleted.
type QuizAttempt struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	UserID        uint              `json:"user_id" gorm:"not null;uniqueIndex:idx_quiz_attempts_ordinal,priority:1"`
	LessonID      uint              `json:"lesson_id" gorm:"not null;uniqueIndex:idx_quiz_attempts_ordinal,priority:2"`
	AttemptNumber int               `json:"attempt_number" gorm:"not null;uniqueIndex:idx_quiz_attempts_ordinal,priority:3"`
	Score         int               `json:"score"`
	MaxScore      int               `json:"max_score"`
	Passed        bool              `json:"passed" gorm:"default:false"`
	Answers       datatypes.JSONMap `json:"answers"`
	CreatedAt     time.Time         `json:"created_at"`
}

// QuizFirstPass marks the first passing attempt of a learner on a lesson.
type QuizFirstPass struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_quiz_first_passes_user_lesson,priority:1"`
	LessonID      uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_quiz_first_passes_user_lesson,priority:2"`
	AttemptID     uint      `json:"attempt_id" gorm:"not null"`
	AttemptNumber int       `json:"attempt_number" gorm:"not null"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}
