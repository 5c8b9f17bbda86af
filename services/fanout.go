package services

import (
	"fmt"

	"lms/models"
)

// Notification event kinds
const (
	EventNewVersion   = "NEW_VERSION"
	EventExpiringSoon = "EXPIRING_SOON"
	EventExpired      = "EXPIRED"
)

// NotificationID derives the deterministic notification key for an event.
// It is a pure function of its inputs so re-run jobs and retried deliveries
// collapse onto the same record.
func NotificationID(event, itemKind string, itemID, userID uint) string {
	return fmt.Sprintf("%s:%s:%d:%d", event, itemKind, itemID, userID)
}

// Fanout creates at-most-once notifications through a NotificationStore
type Fanout struct {
	Store NotificationStore

	// Delivered, when set, is invoked only for notifications created by this
	// call, never for pre-existing ones. Used to push emails or webhooks.
	Delivered func(n models.Notification)
}

// Notify creates the notification for deterministicID unless it already
// exists, in which case the existing record is returned unchanged.
func (f *Fanout) Notify(userID uint, deterministicID, title, message string) (models.Notification, error) {
	n, fresh, err := f.Store.CreateIfAbsent(models.Notification{
		NotificationID: deterministicID,
		UserID:         userID,
		Title:          title,
		Message:        message,
		Read:           false,
	})
	if err != nil {
		return models.Notification{}, err
	}
	if fresh && f.Delivered != nil {
		f.Delivered(n)
	}
	return n, nil
}
