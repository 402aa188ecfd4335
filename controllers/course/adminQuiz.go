package controllers

import (
	"learnsphere/middleware"
	courseModels "learnsphere/models/course"
	"learnsphere/services/learning"

	"github.com/gofiber/fiber/v2"
)

// AdminAddQuestion attaches a question to a quiz lesson
func AdminAddQuestion(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	input := c.Locals("validatedQuestion").(*learning.QuestionInput)

	question, err := service().AddQuestion(c.UserContext(), lessonID, *input)
	if err != nil {
		return serviceError(c, err, "add question")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// AdminSetRewards replaces a lesson's reward schedule
func AdminSetRewards(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	schedule := c.Locals("validatedRewards").(*courseModels.RewardSchedule)

	tiers, err := service().SetRewardSchedule(c.UserContext(), lessonID, *schedule)
	if err != nil {
		return serviceError(c, err, "update rewards")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rewards updated successfully!", tiers)
}
