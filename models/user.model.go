package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// User statuses
const (
	UserActive   = "ACTIVE"
	UserPending  = "PENDING"
	UserInactive = "INACTIVE"
)

type User struct {
	gorm.Model
	ProfileImage string     `gorm:"default:''"`
	Name         string     `gorm:"default:''"`
	Email        string     `gorm:"unique;not null"`
	Mobile       string     `gorm:"default:''"`
	Role         string     `gorm:"default:'STUDENT'"` // STUDENT, TEACHER, MANAGER, ADMIN
	Status       string     `gorm:"default:'ACTIVE'"`  // ACTIVE, PENDING, INACTIVE
	Password     string     `gorm:"not null"`
	InstituteID  uint       `json:"institute_id" gorm:"index;default:0"` // 0 means unscoped, meaningful only for admins
	LastLogin    *time.Time `gorm:"default:NULL"`
	IsDeleted    bool       `gorm:"default:false"`
}
