package controllers

import (
	"coursetrack/middleware"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminGetCourseEnrollments gets all enrolled students for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData, _ := c.Locals("validatedEnrollmentQuery").(*validators.EnrollmentQuery)
	ctx := c.UserContext()

	page := 1
	limit := 10
	status := ""
	if reqData != nil {
		if reqData.Page > 0 {
			page = reqData.Page
		}
		if reqData.Limit > 0 {
			limit = reqData.Limit
		}
		status = reqData.Status
	}
	offset := (page - 1) * limit

	enrollments, total, err := deps.Enrollments.PageByCourse(ctx, courseID, status, offset, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithUser struct {
		ID                uint   `json:"id"`
		UserID            uint   `json:"user_id"`
		UserName          string `json:"user_name"`
		UserEmail         string `json:"user_email"`
		Status            string `json:"status"`
		OverallProgress   int    `json:"overall_progress"`
		CompletedLectures int    `json:"completed_lectures"`
		CertificateIssued bool   `json:"certificate_issued"`
	}

	// Fetch user details for each enrollment
	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		name, email, err := deps.Catalog.Contact(ctx, e.UserID)
		if err != nil {
			deps.Log.Warn("enrolled user lookup failed", "user_id", e.UserID, "error", err)
		}
		result[i] = EnrollmentWithUser{
			ID:                e.ID,
			UserID:            e.UserID,
			UserName:          name,
			UserEmail:         email,
			Status:            e.Status,
			OverallProgress:   e.OverallProgress,
			CompletedLectures: e.CompletedLectures,
			CertificateIssued: e.CertificateIssued,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// AdminGetStudentProgress gets one student's progress report in a course
func AdminGetStudentProgress(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	studentID := c.Locals("studentID").(uint)

	report, err := deps.Progress.Report(c.UserContext(), studentID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", report)
}
