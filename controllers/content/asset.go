package controllers

import (
	"strings"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/models/content"

	"github.com/gofiber/fiber/v2"
)

// CreateAsset creates an asset with an initial DRAFT version
func CreateAsset(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	reqData, ok := c.Locals("validatedAsset").(*struct {
		Title             string `json:"title"`
		Description       string `json:"description"`
		PrimaryCategory   string `json:"primary_category"`
		SecondaryCategory string `json:"secondary_category"`
		Tags              string `json:"tags"`
		Body              string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	asset := content.Asset{
		Title:             reqData.Title,
		Description:       reqData.Description,
		OwnerID:           user.ID,
		PrimaryCategory:   reqData.PrimaryCategory,
		SecondaryCategory: reqData.SecondaryCategory,
		Tags:              reqData.Tags,
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start transaction!", nil)
	}

	if err := tx.Create(&asset).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create asset!", nil)
	}

	version := content.AssetVersion{
		AssetID:       asset.ID,
		VersionNumber: 1,
		Status:        content.StatusDraft,
		Body:          reqData.Body,
	}

	if err := tx.Create(&version).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create initial version!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to commit transaction!", nil)
	}

	asset.Versions = []content.AssetVersion{version}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Asset created successfully!", asset)
}

// CreateAssetVersion adds a new DRAFT version numbered after the current max
func CreateAssetVersion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	assetID := c.Locals("assetID").(int)

	var asset content.Asset
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assetID, false).First(&asset).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Asset not found!", nil)
	}

	reqData, ok := c.Locals("validatedVersion").(*struct {
		Body string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Next version number, including soft deleted rows so numbers never reuse
	var maxVersion int
	database.Database.Db.Model(&content.AssetVersion{}).
		Where("asset_id = ?", asset.ID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxVersion)

	version := content.AssetVersion{
		AssetID:       asset.ID,
		VersionNumber: maxVersion + 1,
		Status:        content.StatusDraft,
		Body:          reqData.Body,
	}

	if err := database.Database.Db.Create(&version).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create version!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Version created successfully!", version)
}

// GetAsset returns an asset with all its versions
func GetAsset(c *fiber.Ctx) error {
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assetID := c.Locals("assetID").(int)

	var asset content.Asset
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", assetID, false).
		Preload("Versions", "is_deleted = ?", false).
		First(&asset).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Asset not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Asset fetched successfully!", asset)
}

// GetAllAssets lists assets with pagination and an optional category filter
func GetAllAssets(c *fiber.Ctx) error {
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	validatedData, ok := c.Locals("validatedAssetList").(*struct {
		Page     int    `json:"page"`
		Limit    int    `json:"limit"`
		Category string `json:"category"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid pagination data!", nil)
	}

	page := validatedData.Page
	limit := validatedData.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&content.Asset{}).Where("is_deleted = ?", false)
	if strings.TrimSpace(validatedData.Category) != "" {
		query = query.Where("primary_category = ?", validatedData.Category)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to count assets!", nil)
	}

	var assets []content.Asset
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&assets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assets fetched successfully!", fiber.Map{
		"assets": assets,
		"pagination": fiber.Map{
			"total": totalCount,
			"page":  page,
			"limit": limit,
		},
	})
}

// RecordAssetAccess logs that the caller viewed the asset's published
// version. These rows feed the expiry job's recipient union.
func RecordAssetAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assetID := c.Locals("assetID").(int)

	var asset content.Asset
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assetID, false).First(&asset).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Asset not found!", nil)
	}

	if asset.CurrentPublishedVersionID == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Asset has no published version!", nil)
	}

	accessLog := content.AccessLog{
		UserID:     userID,
		ItemKind:   content.KindAssetVersion,
		ItemID:     *asset.CurrentPublishedVersionID,
		AccessedAt: time.Now(),
	}

	if err := database.Database.Db.Create(&accessLog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Access recorded successfully!", accessLog)
}
