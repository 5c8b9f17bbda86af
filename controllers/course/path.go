package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreatePath creates a learning path with an ordered course list
func AdminCreatePath(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	reqData, ok := c.Locals("validatedPath").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CourseIDs   []uint `json:"course_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Every member course must exist
	var count int64
	database.Database.Db.Model(&courseModels.Course{}).Where("id IN ? AND is_deleted = ?", reqData.CourseIDs, false).Count(&count)
	if count != int64(len(reqData.CourseIDs)) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "One or more courses not found!", nil)
	}

	path := courseModels.LearningPath{
		Title:       reqData.Title,
		Description: reqData.Description,
		Status:      "DRAFT",
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&path).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create path!", nil)
	}

	for i, courseID := range reqData.CourseIDs {
		member := courseModels.PathCourse{
			PathID:     path.ID,
			CourseID:   courseID,
			OrderIndex: i,
		}
		if err := tx.Create(&member).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create path courses!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Learning path created successfully!", path)
}

// AdminPublishPath makes a learning path visible to users
func AdminPublishPath(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	pathID := c.Locals("pathID").(int)

	var path courseModels.LearningPath
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", pathID, false).First(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
	}

	path.Status = "ACTIVE"
	path.IsPublished = true

	if err := database.Database.Db.Save(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish path!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning path published successfully!", path)
}

// GetAllPaths lists published learning paths
func GetAllPaths(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var paths []courseModels.LearningPath
	if err := database.Database.Db.Where("is_deleted = ? AND is_published = ?", false, true).Order("created_at desc").Find(&paths).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learning paths!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning paths fetched successfully!", paths)
}

// GetPathDetails returns a path with its ordered courses and the caller's
// freshly recomputed progress rollup
func GetPathDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	pathID := c.Locals("pathID").(int)

	var path courseModels.LearningPath
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", pathID, false, true).First(&path).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
	}

	var members []courseModels.PathCourse
	database.Database.Db.Where("path_id = ? AND is_deleted = ?", pathID, false).Preload("Course").Order("order_index asc").Find(&members)

	// Recompute on read so the rollup never lags behind course progress
	if err := RecomputePathRollup(userID, uint(pathID), time.Now()); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute path progress!", nil)
	}

	var rollup courseModels.PathProgressRollup
	database.Database.Db.Where("user_id = ? AND path_id = ?", userID, pathID).First(&rollup)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Learning path fetched successfully!", fiber.Map{
		"path":    path,
		"courses": members,
		"rollup":  rollup,
	})
}

// GetMyPathRollups lists the caller's persisted rollups across all paths
func GetMyPathRollups(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var rollups []courseModels.PathProgressRollup
	if err := database.Database.Db.Where("user_id = ?", userID).Order("last_activity_at desc").Find(&rollups).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch path progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Path progress fetched successfully!", rollups)
}
