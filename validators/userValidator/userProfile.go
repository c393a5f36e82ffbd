package userValidator

import (
	"strings"

	"coursetrack/middleware"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if len(reqData.Name) < 3 || len(reqData.Name) > 100 {
			errors["name"] = "Name must be between 3 and 100 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}
