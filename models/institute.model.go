package models

import "gorm.io/gorm"

// Institute is the tenant boundary; most resources belong to exactly one
type Institute struct {
	gorm.Model
	Name       string `json:"name"`
	Code       string `json:"code" gorm:"unique;not null"`
	Status     string `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, INACTIVE
	Address    string `json:"address"`
	WebhookURL string `json:"webhook_url"` // Optional notification webhook
	IsDeleted  bool   `gorm:"default:false"`
}
