package content

import (
	"time"

	"gorm.io/gorm"
)

// Registry item status enum values
const (
	ItemActive   = "ACTIVE"
	ItemExpired  = "EXPIRED"
	ItemArchived = "ARCHIVED"
)

// ContentItem is a legacy content-registry record carrying its own expiry
// date. The expiry job sweeps these with the same scan as asset versions.
type ContentItem struct {
	gorm.Model
	Title             string     `json:"title"`
	Status            string     `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	PrimaryCategory   string     `json:"primary_category"`
	SecondaryCategory string     `json:"secondary_category"`
	Tags              string     `json:"tags"` // comma separated
	URL               string     `json:"url"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	IsDeleted         bool       `gorm:"default:false"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
