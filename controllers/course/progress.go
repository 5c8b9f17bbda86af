package controllers

import (
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// UpdateCourseProgress records a progress event for an enrolled user and
// recomputes the rollup of every path the course belongs to
func UpdateCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Check if user is enrolled in the course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	reqData, ok := c.Locals("validatedProgress").(*struct {
		PercentComplete int  `json:"percent_complete"`
		Completed       bool `json:"completed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	now := time.Now()

	// Upsert the progress record; completion is one-way. The lookup treats
	// only a missing row as "create": any other error surfaces instead of
	// seeding a duplicate record.
	existing, err := database.LookupCourseProgress(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	progress, err := services.ApplyProgress(existing, userID, uint(courseID), reqData.PercentComplete, reqData.Completed, now)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already completed!", nil)
	}

	if err := database.Database.Db.Save(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	// Keep the enrollment status in step with the progress record
	if progress.Completed && enrollment.Status != "COMPLETED" {
		enrollment.Status = "COMPLETED"
		enrollment.CompletedAt = &now
		database.Database.Db.Save(&enrollment)
	} else if enrollment.Status == "ENROLLED" {
		enrollment.Status = "IN_PROGRESS"
		database.Database.Db.Save(&enrollment)
	}

	// Recompute every affected path rollup
	RefreshPathRollups(userID, uint(courseID), now)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", progress)
}

// GetCourseProgress returns the user's progress record for one course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var progress courseModels.CourseProgress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No progress recorded for this course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

// RefreshPathRollups recomputes and persists the rollup of every path that
// contains the given course for the given user. Rollup computation itself is
// pure; this helper owns all the storage round-trips around it.
func RefreshPathRollups(userID, courseID uint, now time.Time) {
	var pathIDs []uint
	if err := database.Database.Db.Model(&courseModels.PathCourse{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Distinct("path_id").
		Pluck("path_id", &pathIDs).Error; err != nil {
		log.Printf("[ROLLUP] failed to resolve paths for course %d: %v", courseID, err)
		return
	}

	for _, pathID := range pathIDs {
		if err := RecomputePathRollup(userID, pathID, now); err != nil {
			log.Printf("[ROLLUP] failed to recompute path %d for user %d: %v", pathID, userID, err)
		}
	}
}

// RecomputePathRollup recomputes one (user, path) rollup and persists it,
// preserving the sticky StartedAt/CompletedAt fields across recomputation
func RecomputePathRollup(userID, pathID uint, now time.Time) error {
	var members []courseModels.PathCourse
	if err := database.Database.Db.
		Where("path_id = ? AND is_deleted = ?", pathID, false).
		Order("order_index asc").
		Find(&members).Error; err != nil {
		return err
	}

	courseIDs := make([]uint, 0, len(members))
	for _, m := range members {
		courseIDs = append(courseIDs, m.CourseID)
	}

	var existing courseModels.PathProgressRollup
	var prior *courseModels.PathProgressRollup
	if err := database.Database.Db.Where("user_id = ? AND path_id = ?", userID, pathID).First(&existing).Error; err == nil {
		prior = &existing
	}

	rollup := services.ComputeRollup(userID, pathID, courseIDs, prior, database.LookupCourseProgress, now)

	if prior != nil {
		// Carry the persisted row's identity so Save updates in place
		rollup.ID = prior.ID
		rollup.CreatedAt = prior.CreatedAt
	}

	return database.Database.Db.Save(&rollup).Error
}
