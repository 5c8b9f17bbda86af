package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/models/content"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ScheduleVersion moves a draft version to SCHEDULED with a future publish
// time and an optional expiry
func ScheduleVersion(c *fiber.Ctx) error {
	user, version, ok := loadAdminAndVersion(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedSchedule").(*struct {
		PublishAt time.Time  `json:"publish_at"`
		ExpireAt  *time.Time `json:"expire_at"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := services.ScheduleVersion(version, reqData.PublishAt); err != nil {
		return transitionErrorResponse(c, err)
	}
	version.ExpireAt = reqData.ExpireAt

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	if err := tx.Save(version).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to schedule version!", nil)
	}
	if err := tx.Create(&content.AssetHistory{
		AssetVersionID: version.ID,
		Action:         content.ActionScheduled,
		ActorID:        user.ID,
		ActorType:      content.ActorUser,
		Comments:       fmt.Sprintf("Scheduled for %s", reqData.PublishAt.Format(time.RFC3339)),
	}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record history!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Version scheduled successfully!", version)
}

// PublishVersion publishes a draft or scheduled version. The previously
// published version of the same asset, if any, is deprecated in the same
// transaction and the asset's current pointer moves to the new version.
// Matching subscribers are notified after commit.
func PublishVersion(c *fiber.Ctx) error {
	user, version, ok := loadAdminAndVersion(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedPublish").(*struct {
		ChangeLog string     `json:"change_log"`
		ExpireAt  *time.Time `json:"expire_at"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	now := time.Now()

	if err := services.PublishVersion(version, user.ID, reqData.ChangeLog, now); err != nil {
		return transitionErrorResponse(c, err)
	}
	if reqData.ExpireAt != nil {
		version.ExpireAt = reqData.ExpireAt
	}

	var asset content.Asset
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", version.AssetID, false).First(&asset).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Asset not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	// Deprecate the version the asset currently points at
	if asset.CurrentPublishedVersionID != nil && *asset.CurrentPublishedVersionID != version.ID {
		var prior content.AssetVersion
		if err := tx.Where("id = ?", *asset.CurrentPublishedVersionID).First(&prior).Error; err == nil {
			if err := services.DeprecateVersion(&prior); err == nil {
				if err := tx.Save(&prior).Error; err != nil {
					tx.Rollback()
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deprecate prior version!", nil)
				}
				if err := tx.Create(&content.AssetHistory{
					AssetVersionID: prior.ID,
					Action:         content.ActionDeprecated,
					ActorID:        user.ID,
					ActorType:      content.ActorUser,
					Comments:       fmt.Sprintf("Superseded by version %d", version.VersionNumber),
				}).Error; err != nil {
					tx.Rollback()
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record history!", nil)
				}
			}
		}
	}

	if err := tx.Save(version).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish version!", nil)
	}
	if err := tx.Create(&content.AssetHistory{
		AssetVersionID: version.ID,
		Action:         content.ActionPublished,
		ActorID:        user.ID,
		ActorType:      content.ActorUser,
		Comments:       reqData.ChangeLog,
	}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record history!", nil)
	}

	if err := tx.Model(&content.Asset{}).Where("id = ?", asset.ID).
		Update("current_published_version_id", version.ID).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update asset pointer!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	notifyNewVersion(asset, *version)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Version published successfully!", version)
}

// DeprecateVersion marks a published version deprecated without replacing it
func DeprecateVersion(c *fiber.Ctx) error {
	return applyTransition(c, "deprecate")
}

// ExpireVersion expires a published version immediately, outside the
// scheduled expiry job
func ExpireVersion(c *fiber.Ctx) error {
	return applyTransition(c, "expire")
}

// ArchiveVersion moves a version to the terminal ARCHIVED status
func ArchiveVersion(c *fiber.Ctx) error {
	return applyTransition(c, "archive")
}

func applyTransition(c *fiber.Ctx, op string) error {
	user, version, ok := loadAdminAndVersion(c)
	if !ok {
		return nil
	}

	var action string
	var err error
	switch op {
	case "deprecate":
		action = content.ActionDeprecated
		err = services.DeprecateVersion(version)
	case "expire":
		action = content.ActionExpired
		err = services.ExpireVersion(version)
	case "archive":
		action = content.ActionArchived
		err = services.ArchiveVersion(version)
	}
	if err != nil {
		return transitionErrorResponse(c, err)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	if err := tx.Save(version).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update version!", nil)
	}
	if err := tx.Create(&content.AssetHistory{
		AssetVersionID: version.ID,
		Action:         action,
		ActorID:        user.ID,
		ActorType:      content.ActorUser,
	}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record history!", nil)
	}

	// A version leaving PUBLISHED by hand clears the asset pointer
	if err := tx.Model(&content.Asset{}).
		Where("id = ? AND current_published_version_id = ?", version.AssetID, version.ID).
		Update("current_published_version_id", nil).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update asset pointer!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Version updated successfully!", version)
}

// notifyNewVersion fans a NEW_VERSION notification out to every active
// subscription whose filter matches the asset. Failures are logged and
// never fail the publish, which has already committed.
func notifyNewVersion(asset content.Asset, version content.AssetVersion) {
	subStore := &database.GormSubscriptionStore{Db: database.Database.Db}
	subs, err := subStore.ListActive()
	if err != nil {
		log.Printf("[NOTIFY] Failed to list subscriptions for asset %d: %v", asset.ID, err)
		return
	}

	fanout := &services.Fanout{
		Store:     &database.GormNotificationStore{Db: database.Database.Db},
		Delivered: utils.DeliverNotification,
	}

	services.FanoutNewVersion(fanout, subs, asset, version)
}

// loadAdminAndVersion resolves the calling admin and the target version for
// the lifecycle endpoints. On failure the response is already written and
// ok is false.
func loadAdminAndVersion(c *fiber.Ctx) (*models.User, *content.AssetVersion, bool) {
	userID, isUint := c.Locals("userId").(uint)
	if !isUint {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, nil, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil, nil, false
	}

	if user.Role != models.RoleAdmin {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return nil, nil, false
	}

	versionID := c.Locals("versionID").(int)

	var version content.AssetVersion
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", versionID, false).First(&version).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Version not found!", nil)
		return nil, nil, false
	}

	return &user, &version, true
}

func transitionErrorResponse(c *fiber.Ctx, err error) error {
	var invalid *services.InvalidTransitionError
	if errors.As(err, &invalid) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, invalid.Error(), nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update version!", nil)
}
