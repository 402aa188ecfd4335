package courseRoutes

import (
	controllers "learnsphere/controllers/course"
	"learnsphere/middleware"
	"learnsphere/models"
	validators "learnsphere/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the quiz authoring routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/lesson", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermissionManageQuiz))

	adminGroup.Post("/:lesson_id/question", validators.AddQuestion(), controllers.AdminAddQuestion)
	adminGroup.Put("/:lesson_id/rewards", validators.SetRewards(), controllers.AdminSetRewards)
}
