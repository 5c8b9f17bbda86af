package content

import (
	"time"

	"gorm.io/gorm"
)

// VersionStatus enum values
const (
	StatusDraft      = "DRAFT"
	StatusScheduled  = "SCHEDULED"
	StatusPublished  = "PUBLISHED"
	StatusDeprecated = "DEPRECATED"
	StatusExpired    = "EXPIRED"
	StatusArchived   = "ARCHIVED"
)

// Asset is a shareable content document. CurrentPublishedVersionID points at
// the version readers see; it moves when a new version is published.
type Asset struct {
	gorm.Model
	Title                     string `json:"title"`
	Description               string `json:"description"`
	OwnerID                   uint   `json:"owner_id" gorm:"index"`
	PrimaryCategory           string `json:"primary_category"`
	SecondaryCategory         string `json:"secondary_category"`
	Tags                      string `json:"tags"` // comma separated
	CurrentPublishedVersionID *uint  `json:"current_published_version_id"`
	IsDeleted                 bool   `gorm:"default:false"`

	// Relations
	Versions []AssetVersion `gorm:"foreignKey:AssetID" json:"versions,omitempty"`
}

// AssetVersion tracks one revision of an asset through its publish lifecycle
type AssetVersion struct {
	gorm.Model
	AssetID       uint       `json:"asset_id" gorm:"not null;index"`
	VersionNumber int        `json:"version_number" gorm:"not null"`
	Status        string     `json:"status" gorm:"not null;type:varchar(20);default:'DRAFT'"`
	Body          string     `json:"body" gorm:"type:text"`
	ChangeLog     string     `json:"change_log" gorm:"type:text"`
	PublishAt     *time.Time `json:"publish_at"`
	ExpireAt      *time.Time `json:"expire_at"`
	PublishedAt   *time.Time `json:"published_at"`
	PublishedBy   *uint      `json:"published_by"`
	IsDeleted     bool       `gorm:"default:false"`

	// Relations
	Asset   Asset          `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	History []AssetHistory `gorm:"foreignKey:AssetVersionID" json:"history,omitempty"`
}

func (AssetVersion) TableName() string {
	return "asset_versions"
}

// History action enum values
const (
	ActionScheduled  = "SCHEDULED"
	ActionPublished  = "PUBLISHED"
	ActionDeprecated = "DEPRECATED"
	ActionExpired    = "EXPIRED"
	ActionArchived   = "ARCHIVED"
)

// Actor type enum values
const (
	ActorUser   = "USER"
	ActorSystem = "SYSTEM"
)

// AssetHistory records each lifecycle transition for audit
type AssetHistory struct {
	gorm.Model
	AssetVersionID uint   `json:"asset_version_id" gorm:"not null;index"`
	Action         string `json:"action" gorm:"not null"`
	ActorID        uint   `json:"actor_id"` // 0 for system
	ActorType      string `json:"actor_type" gorm:"default:'USER'"`
	Comments       string `json:"comments" gorm:"type:text"`
}

func (AssetHistory) TableName() string {
	return "asset_histories"
}
