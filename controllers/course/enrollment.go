package controllers

import (
	"errors"

	"coursetrack/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	ctx := c.UserContext()

	course, err := deps.Catalog.Course(ctx, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if course.Status != "ACTIVE" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	enrollment, err := deps.Enrollments.Create(ctx, userID, courseID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}
	if err != nil {
		deps.Log.Error("enroll failed", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetUserEnrollments lists all enrollments of the current user
func GetUserEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := deps.Enrollments.ListByUser(c.UserContext(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}
