package contentValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateSubscription() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PrimaryCategory   string `json:"primary_category"`
			SecondaryCategory string `json:"secondary_category"`
			Tags              string `json:"tags"`
			OnNewVersion      bool   `json:"on_new_version"`
			OnExpiringSoon    bool   `json:"on_expiring_soon"`
			OnExpired         bool   `json:"on_expired"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// A subscription with no filter at all would match everything
		if strings.TrimSpace(reqData.PrimaryCategory) == "" &&
			strings.TrimSpace(reqData.SecondaryCategory) == "" &&
			strings.TrimSpace(reqData.Tags) == "" {
			errors["filter"] = "At least one category or tag filter is required!"
		}

		if !reqData.OnNewVersion && !reqData.OnExpiringSoon && !reqData.OnExpired {
			errors["triggers"] = "At least one notification trigger must be enabled!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubscription", reqData)
		return c.Next()
	}
}

// SubscriptionID validates the :id route param and stores it as an int
func SubscriptionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		subscriptionID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || subscriptionID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid subscription ID is required in the URL!", nil)
		}

		c.Locals("subscriptionID", subscriptionID)
		return c.Next()
	}
}

// NotificationID validates the :id route param and stores it as an int
func NotificationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		notificationID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || notificationID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid notification ID is required in the URL!", nil)
		}

		c.Locals("notificationID", notificationID)
		return c.Next()
	}
}
