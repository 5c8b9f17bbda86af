package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreatePath() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			CourseIDs   []uint `json:"course_ids"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate member courses; duplicates are tolerated and deduped later
		if len(reqData.CourseIDs) == 0 {
			errors["course_ids"] = "At least one course is required!"
		}
		for _, id := range reqData.CourseIDs {
			if id == 0 {
				errors["course_ids"] = "Course IDs must be positive!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPath", reqData)
		return c.Next()
	}
}

// PathID validates the :id route param and stores it as an int
func PathID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pathID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || pathID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid path ID is required in the URL!", nil)
		}

		c.Locals("pathID", pathID)
		return c.Next()
	}
}
