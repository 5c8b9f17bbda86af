package courseValidator

import (
	"strconv"
	"strings"
	"time"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID     uint       `json:"user_id"`
			TargetType string     `json:"target_type"`
			TargetID   uint       `json:"target_id"`
			DueAt      *time.Time `json:"due_at"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}

		if reqData.TargetType != courseModels.TargetCourse && reqData.TargetType != courseModels.TargetPath {
			errors["target_type"] = "Target type must be COURSE or PATH!"
		}

		if reqData.TargetID == 0 {
			errors["target_id"] = "Target ID is required!"
		}

		if reqData.DueAt != nil && reqData.DueAt.Before(time.Now()) {
			errors["due_at"] = "Due date must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// AssignmentID validates the :id route param and stores it as an int
func AssignmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || assignmentID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid assignment ID is required in the URL!", nil)
		}

		c.Locals("assignmentID", assignmentID)
		return c.Next()
	}
}
