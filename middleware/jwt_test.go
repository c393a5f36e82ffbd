package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"coursetrack/config"
	"coursetrack/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponseMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrNotEnrolled, fiber.StatusForbidden},
		{services.ErrInvalidReference, fiber.StatusBadRequest},
		{services.ErrAttemptLimitExceeded, fiber.StatusTooManyRequests},
		{services.ErrAlreadySubmitted, fiber.StatusConflict},
		{fmt.Errorf("quiz 3: %w", services.ErrNotFound), fiber.StatusNotFound},
		{services.ErrConcurrentUpdate, fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, err) })

		resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, e)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["status"])
	}
}

func TestConcurrentUpdateSetsRetryAfter(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, services.ErrConcurrentUpdate) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "1", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestJWTAndRoleGuard(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId")})
	})
	app.Get("/admin", JWTMiddleware, RequireRole("ADMIN"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	userToken, err := GenerateJWT(7, "Ada", "USER", "ada@example.com")
	require.NoError(t, err)
	adminToken, err := GenerateJWT(8, "Root", "ADMIN", "root@example.com")
	require.NoError(t, err)

	call := func(path, token string) int {
		req := httptest.NewRequest("GET", path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, call("/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, call("/me", "garbage"))
	assert.Equal(t, fiber.StatusOK, call("/me", userToken))
	assert.Equal(t, fiber.StatusForbidden, call("/admin", userToken))
	assert.Equal(t, fiber.StatusNoContent, call("/admin", adminToken))
}
