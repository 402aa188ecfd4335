package controllers

import (
	"learnsphere/middleware"
	"learnsphere/utils"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	enrollment, err := service().Enroll(c.UserContext(), userID, courseID)
	if err != nil {
		return serviceError(c, err, "enroll in course")
	}

	email, _ := c.Locals("email").(string)
	name, _ := c.Locals("name").(string)
	if email != "" && enrollment.Course != nil {
		utils.SendEnrollmentEmail(email, name, enrollment.Course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := service().Enrollments(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "fetch enrollments")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}
