package authController

import (
	"errors"
	"time"

	"coursetrack/config"
	"coursetrack/database"
	"coursetrack/logger"
	"coursetrack/middleware"
	"coursetrack/models"
	authValidators "coursetrack/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	users *database.UserStore
	log   = logger.Nop()
)

// Setup installs the user store and logger used by the auth handlers.
func Setup(store *database.UserStore, l *logger.Logger) {
	users = store
	log = l
}

func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSignup").(*authValidators.SignupRequest)

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Error("hashing password failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Role:     models.RoleUser,
		Password: string(hashedPassword),
	}
	if config.AppConfig.AdminEmail != "" && reqData.Email == config.AppConfig.AdminEmail {
		newUser.Role = models.RoleAdmin
	}
	err = users.Create(c.UserContext(), &newUser)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}
	if err != nil {
		log.Error("saving user failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully!", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidators.LoginRequest)
	ctx := c.UserContext()

	user, err := users.ByEmail(ctx, reqData.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Error("token generation failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	if err := users.TouchLogin(ctx, user.ID, time.Now()); err != nil {
		log.Warn("recording last login failed", "user_id", user.ID, "error", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}
