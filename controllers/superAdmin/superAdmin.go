package superAdminController

import (
	"coursetrack/database"
	"coursetrack/logger"
	"coursetrack/middleware"
	superAdminValidator "coursetrack/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

var (
	users *database.UserStore
	log   = logger.Nop()
)

func Setup(store *database.UserStore, l *logger.Logger) {
	users = store
	log = l
}

func UserList(c *fiber.Ctx) error {
	// Retrieve validated request data
	reqData, ok := c.Locals("validateUserList").(*superAdminValidator.ListRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (reqData.Page - 1) * reqData.Limit
	list, total, err := users.List(c.UserContext(), offset, reqData.Limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	// Response structure
	response := map[string]interface{}{
		"users": list,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

// SetUserRole grants or revokes the ADMIN role
func SetUserRole(c *fiber.Ctx) error {
	adminID, _ := c.Locals("userId").(uint)
	targetID := c.Locals("targetUserID").(uint)
	reqData := c.Locals("validatedRole").(*superAdminValidator.SetRoleRequest)

	if adminID == targetID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot change your own role!", nil)
	}

	user, err := users.Update(c.UserContext(), targetID, map[string]interface{}{"role": reqData.Role})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	log.Info("user role changed", "admin_id", adminID, "user_id", targetID, "role", reqData.Role)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated!", user)
}
