package models

import "time"

// Point sources. A (user, source type, source id) triple is credited at most once.
const (
	PointSourceQuizFirstPass    = "QUIZ_FIRST_PASS"
	PointSourceCourseCompletion = "COURSE_COMPLETION"
)

// PointLog is the append-only ledger of point credits.
type PointLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_point_logs_source,priority:1"`
	SourceType string    `json:"source_type" gorm:"type:varchar(32);not null;uniqueIndex:idx_point_logs_source,priority:2"`
	SourceID   uint      `json:"source_id" gorm:"not null;uniqueIndex:idx_point_logs_source,priority:3"`
	Points     int       `json:"points" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (PointLog) TableName() string {
	return "point_logs"
}
