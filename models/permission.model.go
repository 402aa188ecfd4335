package models

import (
	"gorm.io/gorm"
)

// Permission strings. Admins also get PermissionManageQuiz, which guards
// quiz authoring and reward schedules.
const (
	PermissionLogin       = "login"
	PermissionTakeQuiz    = "take-quiz"
	PermissionViewProfile = "view-profile"
	PermissionManageQuiz  = "manage-quiz"
)

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"`
	User       User   `gorm:"foreignKey:UserID"`
	Role       string
	Permission string `gorm:"type:varchar(255)"` // e.g., "manage-quiz"
	IsDeleted  bool   `gorm:"default:false"`
}
