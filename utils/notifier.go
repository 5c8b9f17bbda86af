package utils

import (
	"log"
	"strings"

	"lms/database"
	"lms/models"
	"lms/services"
)

// DeliverNotification pushes one freshly created notification out through
// email and the optional webhook. Wired as the fanout Delivered hook, so it
// only ever fires for first-time creations, never on dedup hits.
func DeliverNotification(n models.Notification) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", n.UserID, false).First(&user).Error; err != nil {
		log.Printf("[NOTIFIER] User %d not found for notification %s: %v", n.UserID, n.NotificationID, err)
		return
	}

	// The deterministic id leads with the event kind
	event := n.NotificationID
	if idx := strings.Index(event, ":"); idx > 0 {
		event = event[:idx]
	}

	switch event {
	case services.EventNewVersion:
		SendNewVersionEmail(user.Email, user.Name, n.Title, n.Message)
	case services.EventExpiringSoon:
		SendContentExpiringSoonEmail(user.Email, user.Name, n.Title, n.Message)
	case services.EventExpired:
		SendContentExpiredEmail(user.Email, user.Name, n.Title, n.Message)
	default:
		log.Printf("[NOTIFIER] Unknown event prefix in notification id %s", n.NotificationID)
	}

	go PushNotificationWebhook(n)
}
