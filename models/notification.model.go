package models

import "gorm.io/gorm"

// Notification is one delivered alert for a user. NotificationID is a
// deterministic key derived from the triggering event, so re-running a
// fanout can never create a duplicate row.
type Notification struct {
	gorm.Model
	NotificationID string `json:"notification_id" gorm:"uniqueIndex;not null"`
	UserID         uint   `json:"user_id" gorm:"index;not null"`
	Title          string `json:"title"`
	Message        string `json:"message" gorm:"type:text"`
	Read           bool   `json:"read" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}
