package contentValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateAsset() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title             string `json:"title"`
			Description       string `json:"description"`
			PrimaryCategory   string `json:"primary_category"`
			SecondaryCategory string `json:"secondary_category"`
			Tags              string `json:"tags"`
			Body              string `json:"body"`
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

		// Validate Primary Category
		if strings.TrimSpace(reqData.PrimaryCategory) == "" {
			errors["primary_category"] = "Primary category is required!"
		}

		// The wildcard is reserved for subscription filters
		if strings.Contains(reqData.PrimaryCategory, "*") || strings.Contains(reqData.SecondaryCategory, "*") {
			errors["category"] = "Categories cannot contain the wildcard character!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAsset", reqData)
		return c.Next()
	}
}

func CreateVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Body string `json:"body"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Body) == "" {
			errors["body"] = "Body is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVersion", reqData)
		return c.Next()
	}
}

func AssetList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     int    `json:"page"`
			Limit    int    `json:"limit"`
			Category string `json:"category"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page < 0 {
			errors["page"] = "Page cannot be negative!"
		}
		if reqData.Limit < 0 || reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssetList", reqData)
		return c.Next()
	}
}

// AssetID validates the :id route param and stores it as an int
func AssetID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assetID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || assetID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid asset ID is required in the URL!", nil)
		}

		c.Locals("assetID", assetID)
		return c.Next()
	}
}

// VersionID validates the :versionId route param and stores it as an int
func VersionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		versionID, err := strconv.Atoi(strings.TrimSpace(c.Params("versionId")))
		if err != nil || versionID < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid version ID is required in the URL!", nil)
		}

		c.Locals("versionID", versionID)
		return c.Next()
	}
}
