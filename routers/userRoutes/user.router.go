package userProfileRoutes

import (
	userProfileController "learnsphere/controllers/userControllers"
	"learnsphere/middleware"
	"learnsphere/models"
	userProfileValidator "learnsphere/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user/profile", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermissionViewProfile))

	userGroup.Get("/", userProfileController.GetProfile)
	userGroup.Put("/", userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
}
