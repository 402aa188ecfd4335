package authController

import (
	"errors"
	"log"
	"time"

	"learnsphere/config"
	"learnsphere/database"
	"learnsphere/middleware"
	"learnsphere/models"
	"learnsphere/utils"
	authValidator "learnsphere/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	blockDuration   = time.Minute
	failureWindow   = 15 * time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("[AUTH] Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Role:     models.RoleUser,
		Password: string(hashedPassword),
	}
	if config.AppConfig.IsAdminEmail(reqData.Email) {
		newUser.Role = models.RoleAdmin
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return SeedPermissions(tx, newUser.Role, newUser.ID)
	})
	if err != nil {
		log.Printf("[AUTH] Error saving user %s: %v", reqData.Email, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	log.Printf("[AUTH] User %d registered as %s", newUser.ID, newUser.Role)
	utils.SendWelcomeEmail(newUser.Email, newUser.Name)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// SeedPermissions seeds default permissions for a given role and user ID
func SeedPermissions(db *gorm.DB, role string, userID uint) error {
	var permissionRecords []models.Permission
	for _, p := range getDefaultPermissions(role) {
		permissionRecords = append(permissionRecords, models.Permission{
			UserID:     userID,
			Role:       role,
			Permission: p,
		})
	}

	return db.Create(&permissionRecords).Error
}

// getDefaultPermissions returns the permission strings granted to a role
func getDefaultPermissions(role string) []string {
	permissions := []string{
		models.PermissionLogin,
		models.PermissionTakeQuiz,
		models.PermissionViewProfile,
	}
	if role == models.RoleAdmin {
		permissions = append(permissions, models.PermissionManageQuiz)
	}
	return permissions
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	now := time.Now()

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failureWindow {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after repeated failures
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblockTime := now.Add(blockDuration)
			user.IsBlocked = true
			user.BlockedUntil = &unblockTime
		}

		if err := db.Model(&user).Select("failed_login_attempts", "last_failed_login", "is_blocked", "blocked_until").
			Updates(&user).Error; err != nil {
			log.Printf("[AUTH] Error recording failed login for user %d: %v", user.ID, err)
		}

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := db.Model(&user).Select("last_login", "failed_login_attempts", "last_failed_login", "is_blocked", "blocked_until").
		Updates(&user).Error; err != nil {
		log.Printf("[AUTH] Error saving last login time: %v", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		log.Printf("[AUTH] Error saving login tracking details: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	log.Printf("[AUTH] User %d logged in from IP: %s", user.ID, ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func LoginHistoryList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedLoginHistory").(*authValidator.HistoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (reqData.Page - 1) * reqData.Limit
	db := database.Database.Db.WithContext(c.UserContext())

	var loginTracking []models.LoginTracking
	var total int64

	query := db.Model(&models.LoginTracking{}).
		Where("user_id = ? AND is_deleted = ?", userId, false).
		Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}
	if err := query.Order("timestamp desc").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&loginTracking).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	response := map[string]interface{}{
		"loginTracking": loginTracking,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", response)
}

func ChangeLoginPassword(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid user session!", nil)
	}

	reqData, ok := c.Locals("validatedUser").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load user!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to hash password!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Printf("[AUTH] Error updating password for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}
