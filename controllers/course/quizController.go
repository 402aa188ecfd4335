package controllers

import (
	"learnsphere/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetLessonQuiz returns a lesson's questions without the answers
func GetLessonQuiz(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(uint)

	quiz, err := service().QuizForLearner(c.UserContext(), lessonID)
	if err != nil {
		return serviceError(c, err, "fetch quiz")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

// SubmitQuiz grades a submission and awards points for a first pass
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(uint)
	answers := c.Locals("validatedAnswers").(map[string]interface{})

	result, err := service().SubmitQuiz(c.UserContext(), userID, lessonID, answers)
	if err != nil {
		return serviceError(c, err, "submit quiz")
	}

	message := "Quiz submitted. Keep practicing!"
	if result.Passed {
		message = "Quiz passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// GetQuizAttempts lists the caller's attempts on a lesson, newest first
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	lessonID := c.Locals("lessonID").(uint)

	attempts, err := service().Attempts(c.UserContext(), userID, lessonID)
	if err != nil {
		return serviceError(c, err, "fetch attempts")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
