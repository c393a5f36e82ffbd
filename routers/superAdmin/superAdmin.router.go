package superAdminRoutes

import (
	superAdminController "coursetrack/controllers/superAdmin"
	"coursetrack/middleware"
	"coursetrack/models"
	superAdminValidator "coursetrack/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/user", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/list", superAdminValidator.List(), superAdminController.UserList)
	adminGroup.Patch("/:user_id/role", superAdminValidator.SetRole(), superAdminController.SetUserRole)
}
