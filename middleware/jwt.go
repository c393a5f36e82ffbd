package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"coursetrack/config"
	"coursetrack/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, name, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"role":   role,
		"email":  email,
		"iat":    time.Now().Unix(),                     // issued at
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// JWTMiddleware is a middleware to check for valid JWT token in the request.
// The core trusts the userId it stores in Locals.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}

	userID, ok := claims["userId"].(float64) // JWT numbers decode as float64
	if !ok || userID <= 0 {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}
	c.Locals("userId", uint(userID))
	if role, ok := claims["role"].(string); ok {
		c.Locals("role", role)
	}
	if name, ok := claims["name"].(string); ok {
		c.Locals("name", name)
	}

	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse maps a service error onto the matching HTTP status.
func ErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotEnrolled):
		return JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	case errors.Is(err, services.ErrInvalidReference):
		return JsonResponse(c, fiber.StatusBadRequest, false, "Item does not belong to this course!", nil)
	case errors.Is(err, services.ErrAttemptLimitExceeded):
		return JsonResponse(c, fiber.StatusTooManyRequests, false, "Maximum attempts reached for this quiz!", nil)
	case errors.Is(err, services.ErrAlreadySubmitted):
		return JsonResponse(c, fiber.StatusConflict, false, "Attempt already submitted!", nil)
	case errors.Is(err, services.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, services.ErrConcurrentUpdate):
		c.Set(fiber.HeaderRetryAfter, "1")
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Please retry the request!", nil)
	default:
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
