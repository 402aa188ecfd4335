package routers

import (
	"time"

	"learnsphere/database"
	"learnsphere/middleware"
	authRoutes "learnsphere/routers/authRoutes"
	courseRoutes "learnsphere/routers/courseRoutes"
	userProfileRoutes "learnsphere/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const requestTimeout = 5 * time.Second

// SetupApp builds the fiber app with middleware and every route group.
func SetupApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "LearnSphere",
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Use(middleware.RequestTimeout(requestTimeout))

	app.Get("/health", health)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)

	return app
}

func health(c *fiber.Ctx) error {
	sqlDB, err := database.Database.Db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unreachable!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
}
