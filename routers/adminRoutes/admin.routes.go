package adminRoutes

import (
	controllers "lms/controllers/admin"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up operational admin routes
func SetupAdminRoutes(app *fiber.App) {
	jobGroup := app.Group("/admin/jobs", middleware.JWTMiddleware, middleware.CheckRoleMiddleware(models.RoleAdmin))

	jobGroup.Post("/publish/run", controllers.RunScheduledPublish)
	jobGroup.Post("/expiry/run", controllers.RunExpiryJob)
	jobGroup.Post("/expiry/reminders", controllers.RunExpiryReminders)
}
