package controllers

import (
	"learnsphere/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetUserCertificates lists the caller's certificates
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificates, err := service().Certificates(c.UserContext(), userID)
	if err != nil {
		return serviceError(c, err, "fetch certificates")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}
