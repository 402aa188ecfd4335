package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"default:''"`
	Email               string     `json:"email" gorm:"unique;not null"`
	Role                string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	Password            string     `json:"-" gorm:"not null"`
	TotalPoints         int        `json:"total_points" gorm:"not null;default:0"`
	BadgeLevel          string     `json:"badge_level" gorm:"not null;default:'Newbie'"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `json:"-" gorm:"default:false"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}
