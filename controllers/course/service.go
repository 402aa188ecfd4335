package controllers

import (
	"errors"
	"log"
	"sync"

	"learnsphere/middleware"
	"learnsphere/services/learning"

	"github.com/gofiber/fiber/v2"
)

var (
	serviceMu       sync.RWMutex
	learningService *learning.Service
)

// SetLearningService installs the service used by every course handler.
func SetLearningService(s *learning.Service) {
	serviceMu.Lock()
	defer serviceMu.Unlock()
	learningService = s
}

// errServiceNotInstalled is raised when a handler runs before
// SetLearningService; the recover middleware turns it into a 500.
var errServiceNotInstalled = errors.New("learning service not installed: call SetLearningService at startup")

func service() *learning.Service {
	serviceMu.RLock()
	defer serviceMu.RUnlock()
	if learningService == nil {
		log.Printf("[API] %v", errServiceNotInstalled)
		panic(errServiceNotInstalled)
	}
	return learningService
}

// serviceError maps a learning error onto the JSON envelope.
func serviceError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, learning.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, learning.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, learning.ErrInvalidInput):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	default:
		log.Printf("[API] %s failed: %v", action, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to "+action+"!", nil)
	}
}

func currentUser(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok && userID > 0
}
