package superAdminValidator

import (
	"strconv"
	"strings"

	"coursetrack/middleware"
	"coursetrack/models"

	"github.com/gofiber/fiber/v2"
)

type ListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ListRequest{Page: 1, Limit: 10}

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit < 1 || reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validateUserList", reqData)
		return c.Next()
	}
}

func SetRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(strings.TrimSpace(c.Params("user_id")), 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}

		reqData := new(SetRoleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))
		if reqData.Role != models.RoleUser && reqData.Role != models.RoleAdmin {
			return middleware.ValidationErrorResponse(c, map[string]string{"role": "Role must be USER or ADMIN!"})
		}

		c.Locals("targetUserID", uint(id))
		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}
