package database

import (
	"errors"
	"fmt"
	"time"

	"lms/models"
	"lms/models/content"
	course "lms/models/course"
	"lms/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContentStore implements services.ContentStore over the asset_versions
// and content_items tables. The scan keeps both kinds behind one paginated
// iterator so the job logic never changes if either table grows an index.
type GormContentStore struct {
	Db *gorm.DB
}

// Expired rows stay inside the scan filter on purpose: rows expired earlier
// in the same run must not shift the offset window, and the job skips them
// via its terminal-state check.
var (
	scanVersionStatuses = []string{content.StatusPublished, content.StatusExpired}
	scanItemStatuses    = []string{content.ItemActive, content.ItemExpired}
)

func (s *GormContentStore) ScanExpirable(offset, limit int) ([]services.ExpirableItem, error) {
	var versions []content.AssetVersion
	if err := s.Db.
		Where("status IN ? AND is_deleted = false", scanVersionStatuses).
		Preload("Asset").
		Order("id asc").
		Offset(offset).Limit(limit).
		Find(&versions).Error; err != nil {
		return nil, err
	}

	items := make([]services.ExpirableItem, 0, len(versions))
	for _, v := range versions {
		items = append(items, versionItem(v))
	}

	// Registry items page in after the versions are exhausted
	if len(items) < limit {
		var versionTotal int64
		if err := s.Db.Model(&content.AssetVersion{}).
			Where("status IN ? AND is_deleted = false", scanVersionStatuses).
			Count(&versionTotal).Error; err != nil {
			return nil, err
		}

		itemOffset := offset + len(items) - int(versionTotal)
		if itemOffset < 0 {
			itemOffset = 0
		}

		var registry []content.ContentItem
		if err := s.Db.
			Where("status IN ? AND is_deleted = false", scanItemStatuses).
			Order("id asc").
			Offset(itemOffset).Limit(limit - len(items)).
			Find(&registry).Error; err != nil {
			return nil, err
		}
		for _, ci := range registry {
			items = append(items, registryItem(ci))
		}
	}

	return items, nil
}

func (s *GormContentStore) ScanExpiringBetween(from, to time.Time) ([]services.ExpirableItem, error) {
	var versions []content.AssetVersion
	if err := s.Db.
		Where("status = ? AND is_deleted = false", content.StatusPublished).
		Where("expire_at >= ? AND expire_at < ?", from, to).
		Preload("Asset").
		Find(&versions).Error; err != nil {
		return nil, err
	}

	var registry []content.ContentItem
	if err := s.Db.
		Where("status = ? AND is_deleted = false", content.ItemActive).
		Where("expiry_date >= ? AND expiry_date < ?", from, to).
		Find(&registry).Error; err != nil {
		return nil, err
	}

	items := make([]services.ExpirableItem, 0, len(versions)+len(registry))
	for _, v := range versions {
		items = append(items, versionItem(v))
	}
	for _, ci := range registry {
		items = append(items, registryItem(ci))
	}
	return items, nil
}

// MarkExpired performs a conditional update guarded by the scanned status,
// so an overlapping run loses the race cleanly instead of double-writing
func (s *GormContentStore) MarkExpired(item services.ExpirableItem) error {
	var result *gorm.DB
	switch item.Kind {
	case content.KindAssetVersion:
		result = s.Db.Model(&content.AssetVersion{}).
			Where("id = ? AND status = ?", item.ID, item.Status).
			Update("status", content.StatusExpired)
	case content.KindContentItem:
		result = s.Db.Model(&content.ContentItem{}).
			Where("id = ? AND status = ?", item.ID, item.Status).
			Update("status", content.ItemExpired)
	default:
		return errors.New("unknown expirable kind: " + item.Kind)
	}

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrConflict
	}

	if item.Kind == content.KindAssetVersion {
		history := content.AssetHistory{
			AssetVersionID: item.ID,
			Action:         content.ActionExpired,
			ActorID:        0, // System
			ActorType:      content.ActorSystem,
			Comments:       "Auto-expired at expiry boundary",
		}
		s.Db.Create(&history)
	}
	return nil
}

func versionItem(v content.AssetVersion) services.ExpirableItem {
	return services.ExpirableItem{
		Kind:              content.KindAssetVersion,
		ID:                v.ID,
		Title:             v.Asset.Title,
		Status:            v.Status,
		PrimaryCategory:   v.Asset.PrimaryCategory,
		SecondaryCategory: v.Asset.SecondaryCategory,
		Tags:              v.Asset.Tags,
		ExpireAt:          v.ExpireAt,
	}
}

func registryItem(ci content.ContentItem) services.ExpirableItem {
	return services.ExpirableItem{
		Kind:              content.KindContentItem,
		ID:                ci.ID,
		Title:             ci.Title,
		Status:            ci.Status,
		PrimaryCategory:   ci.PrimaryCategory,
		SecondaryCategory: ci.SecondaryCategory,
		Tags:              ci.Tags,
		ExpireAt:          ci.ExpiryDate,
	}
}

// GormScheduledVersionStore implements services.ScheduledVersionStore over
// the asset_versions table
type GormScheduledVersionStore struct {
	Db *gorm.DB
}

func (s *GormScheduledVersionStore) ListDueScheduled(now time.Time) ([]content.AssetVersion, error) {
	var versions []content.AssetVersion
	if err := s.Db.Where("status = ? AND is_deleted = false", content.StatusScheduled).
		Where("publish_at IS NOT NULL AND publish_at <= ?", now).
		Preload("Asset").
		Order("id asc").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// MarkPublished publishes the version, deprecates the version the asset
// currently points at, and moves the pointer, all in one transaction. The
// version update is conditioned on the scanned SCHEDULED status, so a
// version an admin published meanwhile comes back as services.ErrConflict.
func (s *GormScheduledVersionStore) MarkPublished(v content.AssetVersion, now time.Time) error {
	tx := s.Db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	result := tx.Model(&content.AssetVersion{}).
		Where("id = ? AND status = ?", v.ID, content.StatusScheduled).
		Updates(map[string]interface{}{
			"status":       content.StatusPublished,
			"published_at": now,
			"publish_at":   nil,
		})
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return services.ErrConflict
	}

	var asset content.Asset
	if err := tx.First(&asset, v.AssetID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if asset.CurrentPublishedVersionID != nil && *asset.CurrentPublishedVersionID != v.ID {
		prior := tx.Model(&content.AssetVersion{}).
			Where("id = ? AND status = ?", *asset.CurrentPublishedVersionID, content.StatusPublished).
			Update("status", content.StatusDeprecated)
		if prior.Error != nil {
			tx.Rollback()
			return prior.Error
		}
		if prior.RowsAffected > 0 {
			if err := tx.Create(&content.AssetHistory{
				AssetVersionID: *asset.CurrentPublishedVersionID,
				Action:         content.ActionDeprecated,
				ActorID:        0,
				ActorType:      content.ActorSystem,
				Comments:       fmt.Sprintf("Superseded by version %d", v.VersionNumber),
			}).Error; err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Model(&content.Asset{}).Where("id = ?", asset.ID).
		Update("current_published_version_id", v.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(&content.AssetHistory{
		AssetVersionID: v.ID,
		Action:         content.ActionPublished,
		ActorID:        0,
		ActorType:      content.ActorSystem,
		Comments:       "Auto-published at scheduled time",
	}).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// GormSubscriptionStore implements services.SubscriptionStore
type GormSubscriptionStore struct {
	Db *gorm.DB
}

func (s *GormSubscriptionStore) ListActive() ([]content.Subscription, error) {
	var subs []content.Subscription
	if err := s.Db.Where("is_deleted = false").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// GormAccessHistory implements services.AccessHistory
type GormAccessHistory struct {
	Db *gorm.DB
}

func (s *GormAccessHistory) RecentAccessors(itemKind string, itemID uint, since time.Time) ([]uint, error) {
	var userIDs []uint
	if err := s.Db.Model(&content.AccessLog{}).
		Where("item_kind = ? AND item_id = ? AND accessed_at >= ?", itemKind, itemID, since).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// GormNotificationStore implements services.NotificationStore with an
// insert-or-ignore on the deterministic id's unique index
type GormNotificationStore struct {
	Db *gorm.DB
}

func (s *GormNotificationStore) CreateIfAbsent(n models.Notification) (models.Notification, bool, error) {
	result := s.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notification_id"}},
		DoNothing: true,
	}).Create(&n)
	if result.Error != nil {
		return models.Notification{}, false, result.Error
	}

	if result.RowsAffected == 0 {
		// Lost to an earlier create; hand back the existing record unchanged
		var existing models.Notification
		if err := s.Db.Where("notification_id = ?", n.NotificationID).First(&existing).Error; err != nil {
			return models.Notification{}, false, err
		}
		return existing, false, nil
	}
	return n, true, nil
}

// LookupCourseProgress is the services.ProgressLookup used by the rollup
// endpoints. A missing row is not an error, it is "no progress yet".
func LookupCourseProgress(userID, courseID uint) (*course.CourseProgress, error) {
	var progress course.CourseProgress
	err := Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
