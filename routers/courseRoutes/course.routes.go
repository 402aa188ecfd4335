package courseRoutes

import (
	controllers "learnsphere/controllers/course"
	"learnsphere/middleware"
	validators "learnsphere/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Completion
	userGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.CompleteLesson(), controllers.CompleteLesson)
	userGroup.Post("/:course_id/complete", middleware.JWTMiddleware, validators.CompleteCourse(), controllers.CompleteCourse)

	// Quizzes
	lessonGroup := app.Group("/lesson")
	lessonGroup.Get("/:lesson_id/quiz", middleware.JWTMiddleware, validators.LessonQuiz(), controllers.GetLessonQuiz)
	lessonGroup.Post("/:lesson_id/quiz/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuiz)
	lessonGroup.Get("/:lesson_id/quiz/attempts", middleware.JWTMiddleware, validators.LessonQuiz(), controllers.GetQuizAttempts)

	// User enrollments, certificates and gamification
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userEnrollGroup.Get("/stats", middleware.JWTMiddleware, controllers.GetUserStats)

	app.Get("/leaderboard", middleware.JWTMiddleware, validators.Leaderboard(), controllers.GetLeaderboard)
}
