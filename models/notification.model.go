package models

import "gorm.io/gorm"

// Notification is an in-app message for a single user
type Notification struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Link      string `json:"link"` // Optional deep link into the dashboard
	IsRead    bool   `json:"is_read" gorm:"default:false"`
	IsDeleted bool   `gorm:"default:false"`
}
