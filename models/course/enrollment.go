package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentEnrolled   = "ENROLLED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course,priority:1"`
	CourseID         uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course,priority:2"`
	Course           *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress         int        `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `json:"-" gorm:"default:false"`
}

// LessonCompletion records that a lesson was completed within an enrollment.
type LessonCompletion struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_lesson_completions_enrollment_lesson,priority:1"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	LessonID     uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_completions_enrollment_lesson,priority:2"`
	CreatedAt    time.Time `json:"created_at"`
}
