package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminAssign assigns a course or path to a learner with an optional due date
func AdminAssign(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if admin.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	reqData, ok := c.Locals("validatedAssignment").(*struct {
		UserID     uint       `json:"user_id"`
		TargetType string     `json:"target_type"`
		TargetID   uint       `json:"target_id"`
		DueAt      *time.Time `json:"due_at"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check learner exists
	var learner models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&learner).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learner not found!", nil)
	}

	// Check the target exists
	switch reqData.TargetType {
	case courseModels.TargetCourse:
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.TargetID, false).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	case courseModels.TargetPath:
		var path courseModels.LearningPath
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.TargetID, false).First(&path).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Learning path not found!", nil)
		}
	}

	// One live assignment per (user, target)
	var existing courseModels.Assignment
	if err := database.Database.Db.Where("user_id = ? AND target_type = ? AND target_id = ? AND is_deleted = ?",
		reqData.UserID, reqData.TargetType, reqData.TargetID, false).First(&existing).Error; err == nil && !existing.Terminal() {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An open assignment already exists for this target!", nil)
	}

	assignment := courseModels.Assignment{
		UserID:     reqData.UserID,
		TargetType: reqData.TargetType,
		TargetID:   reqData.TargetID,
		Status:     courseModels.AssignmentAssigned,
		AssignedBy: admin.ID,
		DueAt:      reqData.DueAt,
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// GetMyAssignments lists the caller's assignments
func GetMyAssignments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", assignments)
}

// StartAssignment moves an assignment from ASSIGNED to STARTED
func StartAssignment(c *fiber.Ctx) error {
	return transitionAssignment(c, courseModels.AssignmentAssigned, courseModels.AssignmentStarted, false)
}

// CompleteAssignment moves a started assignment to the terminal COMPLETED state
func CompleteAssignment(c *fiber.Ctx) error {
	return transitionAssignment(c, courseModels.AssignmentStarted, courseModels.AssignmentCompleted, false)
}

// WaiveAssignment is an admin-only transition to the terminal WAIVED state
func WaiveAssignment(c *fiber.Ctx) error {
	return transitionAssignment(c, "", courseModels.AssignmentWaived, true)
}

// transitionAssignment applies one assignment state change. Terminal
// assignments are immutable; a waive accepts any non-terminal prior state.
func transitionAssignment(c *fiber.Ctx, from, to string, adminOnly bool) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if adminOnly && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	query := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false)
	if !adminOnly {
		query = query.Where("user_id = ?", userID)
	}

	var assignment courseModels.Assignment
	if err := query.First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if assignment.Terminal() {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment is already in a terminal state!", nil)
	}
	if from != "" && assignment.Status != from {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment is not in the required state for this transition!", nil)
	}

	assignment.Status = to

	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment updated successfully!", assignment)
}
