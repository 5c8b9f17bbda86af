package content

import (
	"strings"

	"gorm.io/gorm"
)

// Wildcard matches any category value in a subscription filter
const Wildcard = "*"

// Subscription is a user's interest filter for content notifications.
// Category filters accept the "*" wildcard; Tags match on any overlap.
type Subscription struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"index;not null"`
	PrimaryCategory   string `json:"primary_category"`
	SecondaryCategory string `json:"secondary_category"`
	Tags              string `json:"tags"` // comma separated
	OnNewVersion      bool   `json:"on_new_version" gorm:"default:true"`
	OnExpiringSoon    bool   `json:"on_expiring_soon" gorm:"default:false"`
	OnExpired         bool   `json:"on_expired" gorm:"default:false"`
	IsDeleted         bool   `gorm:"default:false"`
}

// SplitTags turns a comma-separated tag column into a trimmed slice
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
