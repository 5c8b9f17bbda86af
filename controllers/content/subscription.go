package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models/content"

	"github.com/gofiber/fiber/v2"
)

// CreateSubscription registers a notification filter for the caller
func CreateSubscription(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSubscription").(*struct {
		PrimaryCategory   string `json:"primary_category"`
		SecondaryCategory string `json:"secondary_category"`
		Tags              string `json:"tags"`
		OnNewVersion      bool   `json:"on_new_version"`
		OnExpiringSoon    bool   `json:"on_expiring_soon"`
		OnExpired         bool   `json:"on_expired"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	subscription := content.Subscription{
		UserID:            userID,
		PrimaryCategory:   reqData.PrimaryCategory,
		SecondaryCategory: reqData.SecondaryCategory,
		Tags:              reqData.Tags,
		OnNewVersion:      reqData.OnNewVersion,
		OnExpiringSoon:    reqData.OnExpiringSoon,
		OnExpired:         reqData.OnExpired,
	}

	if err := database.Database.Db.Create(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subscription created successfully!", subscription)
}

// GetMySubscriptions lists the caller's subscriptions
func GetMySubscriptions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var subscriptions []content.Subscription
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&subscriptions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscriptions fetched successfully!", subscriptions)
}

// DeleteSubscription soft deletes one of the caller's subscriptions
func DeleteSubscription(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	subscriptionID := c.Locals("subscriptionID").(int)

	var subscription content.Subscription
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", subscriptionID, userID, false).First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Subscription not found!", nil)
	}

	subscription.IsDeleted = true

	if err := database.Database.Db.Save(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription deleted successfully!", nil)
}
