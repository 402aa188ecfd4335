package controllers

import (
	"learnsphere/middleware"

	"github.com/gofiber/fiber/v2"
)

// CompleteLesson marks a lesson complete for the caller's enrollment
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	result, err := service().CompleteLesson(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return serviceError(c, err, "complete lesson")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", result)
}

// CompleteCourse issues the course certificate once
func CompleteCourse(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	result, err := service().CompleteCourse(c.UserContext(), userID, courseID)
	if err != nil {
		return serviceError(c, err, "complete course")
	}

	message := "Course completed!"
	if result.PointsAwarded == 0 {
		message = "Course already completed."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// GetUserStats returns the caller's points, badge and activity counts
func GetUserStats(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	stats, err := service().Stats(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "fetch stats")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", stats)
}

// GetLeaderboard ranks learners for the validated period
func GetLeaderboard(c *fiber.Ctx) error {
	period := c.Locals("period").(string)
	limit := c.Locals("limit").(int)

	entries, err := service().Leaderboard(c.UserContext(), period, limit)
	if err != nil {
		return serviceError(c, err, "fetch leaderboard")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", fiber.Map{
		"period":  period,
		"entries": entries,
	})
}
