package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course,priority:1"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course,priority:2"`
	Course            *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	IssuedAt          time.Time `json:"issued_at"`
}
