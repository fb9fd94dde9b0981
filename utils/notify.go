package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/go-resty/resty/v2"
)

// Notify creates an in-app notification for a user and, when the user's
// institute has a webhook configured, pushes it there as well. Failures are
// logged and never surfaced to the request that triggered the notification.
func Notify(userID uint, title, message, link string) {
	db := database.Database.Db

	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Error creating notification for user %d: %v", userID, err)
		return
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return
	}
	if user.InstituteID == 0 {
		return
	}

	var institute models.Institute
	if err := db.Where("id = ? AND is_deleted = ?", user.InstituteID, false).First(&institute).Error; err != nil {
		return
	}
	if institute.WebhookURL == "" {
		return
	}

	go pushWebhook(institute.WebhookURL, notification)
}

// pushWebhook delivers a notification to an institute webhook endpoint
func pushWebhook(url string, notification models.Notification) {
	client := resty.New().
		SetTimeout(time.Duration(config.AppConfig.WebhookTimeoutSec) * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"user_id": notification.UserID,
			"title":   notification.Title,
			"message": notification.Message,
			"link":    notification.Link,
		}).
		Post(url)
	if err != nil {
		log.Printf("Error delivering webhook to %s: %v", url, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Webhook %s responded with status %d", url, resp.StatusCode())
	}
}
