package controllers

import (
	"coursetrack/middleware"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// MarkLectureWatched stores the learner's resume position for a lecture
func MarkLectureWatched(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	lectureID := c.Locals("lectureID").(uint)
	reqData := c.Locals("validatedWatchLecture").(*validators.WatchLectureRequest)

	enrollment, err := deps.Progress.MarkLectureWatched(c.UserContext(), userID, courseID, lectureID, reqData.WatchTimeSeconds)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Watch progress saved!", enrollment)
}

// MarkLectureComplete marks a lecture as completed for the user
func MarkLectureComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	lectureID := c.Locals("lectureID").(uint)

	enrollment, err := deps.Progress.MarkLectureCompleted(c.UserContext(), userID, courseID, lectureID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture marked as completed!", fiber.Map{
		"overall_progress":   enrollment.OverallProgress,
		"completed_lectures": enrollment.CompletedLectures,
		"completed_at":       enrollment.CompletedAt,
		"enrollment":         enrollment,
	})
}

// GetUserProgress gets the user's progress in a course
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	report, err := deps.Progress.Report(c.UserContext(), userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", report)
}
