package content

import (
	"time"

	"gorm.io/gorm"
)

// Item kind enum values used by access logs and notification ids
const (
	KindAssetVersion = "ASSET_VERSION"
	KindContentItem  = "CONTENT_ITEM"
)

// AccessLog records that a user viewed or cited a content item. The expiry
// job unions recent accessors into the notification recipient set.
type AccessLog struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	ItemKind   string    `json:"item_kind" gorm:"not null"`
	ItemID     uint      `json:"item_id" gorm:"index;not null"`
	AccessedAt time.Time `json:"accessed_at" gorm:"index;not null"`
}

func (AccessLog) TableName() string {
	return "access_logs"
}
