package userProfileController

import (
	"coursetrack/database"
	"coursetrack/middleware"
	courseModels "coursetrack/models/course"
	userValidator "coursetrack/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

var (
	users       *database.UserStore
	enrollments *database.EnrollmentStore
)

func Setup(userStore *database.UserStore, enrollmentStore *database.EnrollmentStore) {
	users = userStore
	enrollments = enrollmentStore
}

// GetProfile returns the current user with a summary of their learning
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	ctx := c.UserContext()

	user, err := users.ByID(ctx, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	list, err := enrollments.ListByUser(ctx, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
	}

	completed, certificates := 0, 0
	for _, e := range list {
		if e.Status == courseModels.EnrollmentCompleted {
			completed++
		}
		if e.CertificateIssued {
			certificates++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":              user,
		"enrolled_courses":  len(list),
		"completed_courses": completed,
		"certificates":      certificates,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)

	user, err := users.Update(c.UserContext(), userID, map[string]interface{}{"name": reqData.Name})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}
