package contentRoutes

import (
	controllers "lms/controllers/content"
	"lms/middleware"
	validators "lms/validators/content"

	"github.com/gofiber/fiber/v2"
)

// SetupContentRoutes sets up user-facing content hub routes
func SetupContentRoutes(app *fiber.App) {
	assetGroup := app.Group("/asset")
	assetGroup.Get("/list", middleware.JWTMiddleware, validators.AssetList(), controllers.GetAllAssets)
	assetGroup.Get("/:id", middleware.JWTMiddleware, validators.AssetID(), controllers.GetAsset)
	assetGroup.Post("/:id/access", middleware.JWTMiddleware, validators.AssetID(), controllers.RecordAssetAccess)

	itemGroup := app.Group("/content-item")
	itemGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllContentItems)
	itemGroup.Post("/:id/access", middleware.JWTMiddleware, validators.ItemID(), controllers.RecordContentItemAccess)

	subscriptionGroup := app.Group("/subscription")
	subscriptionGroup.Post("/create", middleware.JWTMiddleware, validators.CreateSubscription(), controllers.CreateSubscription)
	subscriptionGroup.Get("/my", middleware.JWTMiddleware, controllers.GetMySubscriptions)
	subscriptionGroup.Delete("/:id", middleware.JWTMiddleware, validators.SubscriptionID(), controllers.DeleteSubscription)

	notificationGroup := app.Group("/notification")
	notificationGroup.Get("/my", middleware.JWTMiddleware, controllers.GetMyNotifications)
	notificationGroup.Post("/:id/read", middleware.JWTMiddleware, validators.NotificationID(), controllers.MarkNotificationRead)
}

// SetupAdminContentRoutes sets up admin content authoring and lifecycle routes
func SetupAdminContentRoutes(app *fiber.App) {
	assetGroup := app.Group("/admin/asset")
	assetGroup.Post("/create", middleware.JWTMiddleware, validators.CreateAsset(), controllers.CreateAsset)
	assetGroup.Post("/:id/version", middleware.JWTMiddleware, validators.AssetID(), validators.CreateVersion(), controllers.CreateAssetVersion)

	versionGroup := app.Group("/admin/version")
	versionGroup.Post("/:versionId/schedule", middleware.JWTMiddleware, validators.VersionID(), validators.ScheduleVersion(), controllers.ScheduleVersion)
	versionGroup.Post("/:versionId/publish", middleware.JWTMiddleware, validators.VersionID(), validators.PublishVersion(), controllers.PublishVersion)
	versionGroup.Post("/:versionId/deprecate", middleware.JWTMiddleware, validators.VersionID(), controllers.DeprecateVersion)
	versionGroup.Post("/:versionId/expire", middleware.JWTMiddleware, validators.VersionID(), controllers.ExpireVersion)
	versionGroup.Post("/:versionId/archive", middleware.JWTMiddleware, validators.VersionID(), controllers.ArchiveVersion)

	itemGroup := app.Group("/admin/content-item")
	itemGroup.Post("/create", middleware.JWTMiddleware, validators.CreateContentItem(), controllers.AdminCreateContentItem)
	itemGroup.Post("/:id/archive", middleware.JWTMiddleware, validators.ItemID(), controllers.AdminArchiveContentItem)
}
