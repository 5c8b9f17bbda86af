package utils

import (
	"log"

	"lms/config"
	"lms/models"

	"github.com/go-resty/resty/v2"
)

// PushNotificationWebhook posts a created notification to the configured
// downstream endpoint. Best effort only, failures are logged and dropped.
func PushNotificationWebhook(n models.Notification) {
	url := config.AppConfig.NotifyWebhookURL
	if url == "" {
		return
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", config.AppConfig.NotifyWebhookKey).
		SetBody(map[string]interface{}{
			"notification_id": n.NotificationID,
			"user_id":         n.UserID,
			"title":           n.Title,
			"message":         n.Message,
			"created_at":      n.CreatedAt,
		}).
		Post(url)
	if err != nil {
		log.Printf("[WEBHOOK] Failed to push notification %s: %v", n.NotificationID, err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("[WEBHOOK] Push for %s rejected: %d %s", n.NotificationID, resp.StatusCode(), resp.String())
	}
}
