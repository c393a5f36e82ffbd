package userProfileRoutes

import (
	userProfileController "coursetrack/controllers/userControllers"
	"coursetrack/middleware"
	userPorfileValidator "coursetrack/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	app.Get("/user/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	app.Put("/user/profile", middleware.JWTMiddleware, userPorfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
}
