package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Get("/enrollments/my", middleware.JWTMiddleware, controllers.GetEnrollments)

	// Progress
	courseGroup.Post("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), validators.UpdateProgress(), controllers.UpdateCourseProgress)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)

	// Learning paths
	pathGroup := app.Group("/path")
	pathGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllPaths)
	pathGroup.Get("/rollups/my", middleware.JWTMiddleware, controllers.GetMyPathRollups)
	pathGroup.Get("/:id", middleware.JWTMiddleware, validators.PathID(), controllers.GetPathDetails)

	// Assignments
	assignmentGroup := app.Group("/assignment")
	assignmentGroup.Get("/my", middleware.JWTMiddleware, controllers.GetMyAssignments)
	assignmentGroup.Post("/:id/start", middleware.JWTMiddleware, validators.AssignmentID(), controllers.StartAssignment)
	assignmentGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.AssignmentID(), controllers.CompleteAssignment)
}

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.CourseID(), validators.CreateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, controllers.AdminGetAllCourses)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminPublishCourse)

	// Learning path management
	pathGroup := app.Group("/admin/path")
	pathGroup.Post("/create", middleware.JWTMiddleware, validators.CreatePath(), controllers.AdminCreatePath)
	pathGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.PathID(), controllers.AdminPublishPath)

	// Assignment management
	assignmentGroup := app.Group("/admin/assignment")
	assignmentGroup.Post("/create", middleware.JWTMiddleware, validators.CreateAssignment(), controllers.AdminAssign)
	assignmentGroup.Post("/:id/waive", middleware.JWTMiddleware, validators.AssignmentID(), controllers.WaiveAssignment)
}
