package contentValidator

import (
	"strconv"
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateContentItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title             string     `json:"title"`
			PrimaryCategory   string     `json:"primary_category"`
			SecondaryCategory string     `json:"secondary_category"`
			Tags              string     `json:"tags"`
			URL               string     `json:"url"`
			ExpiryDate        *time.Time `json:"expiry_date"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if strings.TrimSpace(reqData.PrimaryCategory) == "" {
			errors["primary_category"] = "Primary category is required!"
		}

		if strings.Contains(reqData.PrimaryCategory, "*") || strings.Contains(reqData.SecondaryCategory, "*") {
			errors["category"] = "Categories cannot contain the wildcard character!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContentItem", reqData)
		return c.Next()
	}
}

// ItemID validates the :id route param and stores it as an int
func ItemID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || itemID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid content item ID is required in the URL!", nil)
		}

		c.Locals("itemID", itemID)
		return c.Next()
	}
}
