package courseValidator

import (
	"strings"

	"learnsphere/middleware"
	"learnsphere/services/learning"
	"learnsphere/validators"

	"github.com/gofiber/fiber/v2"
)

// LessonQuiz validates the lesson id of the quiz read routes
func LessonQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := validators.ParamID(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// SubmitQuiz validates a quiz submission. Only the lesson id is required;
// a missing or malformed answer is graded as wrong, not rejected.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := validators.ParamID(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(struct {
			Answers map[string]interface{} `json:"answers"`
		})
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if reqData.Answers == nil {
			reqData.Answers = map[string]interface{}{}
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedAnswers", reqData.Answers)
		return c.Next()
	}
}

// CompleteLesson validates the course and lesson ids
func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := validators.ParamID(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		lessonID, ok := validators.ParamID(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// CompleteCourse validates the course id
func CompleteCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := validators.ParamID(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// Leaderboard validates the period and limit query parameters
func Leaderboard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Period string `query:"period" json:"period" validate:"omitempty,oneof=all week today"`
			Limit  int    `query:"limit" json:"limit" validate:"gte=0,lte=100"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Period = strings.ToLower(strings.TrimSpace(reqData.Period))
		if reqData.Period == "" {
			reqData.Period = learning.PeriodAll
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("period", reqData.Period)
		c.Locals("limit", reqData.Limit)
		return c.Next()
	}
}
