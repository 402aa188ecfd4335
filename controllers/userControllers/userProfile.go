package userController

import (
	"errors"
	"log"

	"learnsphere/database"
	"learnsphere/middleware"
	"learnsphere/models"
	userValidator "learnsphere/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load profile!", nil)
	}

	var permissions []string
	if err := db.Model(&models.Permission{}).
		Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("id").
		Pluck("permission", &permissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load permissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":        user,
		"permissions": permissions,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	res := database.Database.Db.WithContext(c.UserContext()).
		Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userId, false).
		Update("name", reqData.Name)
	if res.Error != nil {
		log.Printf("[PROFILE] Error updating user %d: %v", userId, res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", fiber.Map{"name": reqData.Name})
}
