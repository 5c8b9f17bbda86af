package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/models/content"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateContentItem registers a legacy content item with its own
// expiry date
func AdminCreateContentItem(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedContentItem").(*struct {
		Title             string     `json:"title"`
		PrimaryCategory   string     `json:"primary_category"`
		SecondaryCategory string     `json:"secondary_category"`
		Tags              string     `json:"tags"`
		URL               string     `json:"url"`
		ExpiryDate        *time.Time `json:"expiry_date"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	item := content.ContentItem{
		Title:             reqData.Title,
		Status:            content.ItemActive,
		PrimaryCategory:   reqData.PrimaryCategory,
		SecondaryCategory: reqData.SecondaryCategory,
		Tags:              reqData.Tags,
		URL:               reqData.URL,
		ExpiryDate:        reqData.ExpiryDate,
	}

	if err := database.Database.Db.Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content item created successfully!", item)
}

// AdminArchiveContentItem retires a registry item from the expiry scan
func AdminArchiveContentItem(c *fiber.Ctx) error {
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

	itemID := c.Locals("itemID").(int)

	var item content.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content item not found!", nil)
	}

	if item.Status == content.ItemArchived {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Content item is already archived!", nil)
	}

	item.Status = content.ItemArchived

	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to archive content item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content item archived successfully!", item)
}

// GetAllContentItems lists registry items
func GetAllContentItems(c *fiber.Ctx) error {
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var items []content.ContentItem
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&items).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content items!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content items fetched successfully!", items)
}

// RecordContentItemAccess logs that the caller used a registry item
func RecordContentItemAccess(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	itemID := c.Locals("itemID").(int)

	var item content.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content item not found!", nil)
	}

	accessLog := content.AccessLog{
		UserID:     userID,
		ItemKind:   content.KindContentItem,
		ItemID:     item.ID,
		AccessedAt: time.Now(),
	}

	if err := database.Database.Db.Create(&accessLog).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Access recorded successfully!", accessLog)
}
