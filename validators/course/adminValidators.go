package courseValidator

import (
	"strings"

	"learnsphere/middleware"
	courseModels "learnsphere/models/course"
	"learnsphere/services/learning"
	"learnsphere/validators"

	"github.com/gofiber/fiber/v2"
)

// AddQuestion validates a quiz question authored by an admin
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := validators.ParamID(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(learning.QuestionInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.QuestionText = strings.TrimSpace(reqData.QuestionText)

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if _, bad := errors["correct_answer"]; !bad && reqData.CorrectAnswer != "" && !contains(reqData.Options, reqData.CorrectAnswer) {
			errors["correct_answer"] = "Correct answer must be one of the options!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// SetRewards validates a lesson reward schedule
func SetRewards() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := validators.ParamID(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(struct {
			First  *int `json:"first" validate:"omitempty,gte=0"`
			Second *int `json:"second" validate:"omitempty,gte=0"`
			Third  *int `json:"third" validate:"omitempty,gte=0"`
			Other  *int `json:"other" validate:"omitempty,gte=0"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedRewards", &courseModels.RewardSchedule{
			First:  reqData.First,
			Second: reqData.Second,
			Third:  reqData.Third,
			Other:  reqData.Other,
		})
		return c.Next()
	}
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
