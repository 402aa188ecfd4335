package userValidator

import (
	"strings"

	"learnsphere/middleware"
	"learnsphere/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=3,max=100"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
