package contentValidator

import (
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func ScheduleVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PublishAt time.Time  `json:"publish_at"`
			ExpireAt  *time.Time `json:"expire_at"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.PublishAt.IsZero() {
			errors["publish_at"] = "Publish time is required!"
		} else if reqData.PublishAt.Before(time.Now()) {
			errors["publish_at"] = "Publish time must be in the future!"
		}

		if reqData.ExpireAt != nil && !reqData.PublishAt.IsZero() && reqData.ExpireAt.Before(reqData.PublishAt) {
			errors["expire_at"] = "Expiry must be after the publish time!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSchedule", reqData)
		return c.Next()
	}
}

func PublishVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ChangeLog string     `json:"change_log"`
			ExpireAt  *time.Time `json:"expire_at"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.ChangeLog) == "" {
			errors["change_log"] = "A change log is required when publishing!"
		}

		if reqData.ExpireAt != nil && reqData.ExpireAt.Before(time.Now()) {
			errors["expire_at"] = "Expiry must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}
