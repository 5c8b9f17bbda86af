package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// RunExpiryJob triggers one content expiry run on demand and returns its
// summary. The job is idempotent, so an overlap with the nightly sweep is
// harmless.
func RunExpiryJob(c *fiber.Ctx) error {
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

	job := utils.NewExpiryJob()

	summary, err := job.Run(time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Expiry run failed to start!", summary)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Expiry run completed!", summary)
}

// RunScheduledPublish triggers one scheduled-publish run on demand, taking
// any version whose publish time has passed live without waiting for the
// scheduler
func RunScheduledPublish(c *fiber.Ctx) error {
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

	job := utils.NewPublishJob()

	summary, err := job.Run(time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Scheduled publish run failed to start!", summary)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Scheduled publish run completed!", summary)
}

// RunExpiryReminders triggers the expiring-soon reminder pass on demand
func RunExpiryReminders(c *fiber.Ctx) error {
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

	job := utils.NewExpiryJob()

	summary, err := job.RunReminders(time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Reminder run failed!", summary)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reminder run completed!", summary)
}
