package controllers

import (
	"context"

	"coursetrack/middleware"
	courseModels "coursetrack/models/course"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminCreateCourse creates a new course in DRAFT state
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*validators.CreateCourseRequest)

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Author:      reqData.Author,
		Status:      "DRAFT",
	}
	if err := deps.Catalog.CreateCourse(c.UserContext(), &course); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, err := deps.Catalog.PublishCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

func AdminCreateSection(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedSection").(*validators.SectionRequest)
	ctx := c.UserContext()

	section := courseModels.Section{
		CourseID:    courseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}
	if err := deps.Catalog.CreateSection(ctx, &section); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	refreshStats(ctx, courseID, false)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

func AdminUpdateSection(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)
	reqData := c.Locals("validatedSection").(*validators.SectionRequest)

	section, err := deps.Catalog.UpdateSection(c.UserContext(), sectionID, map[string]interface{}{
		"title":       reqData.Title,
		"description": reqData.Description,
		"order_index": reqData.OrderIndex,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

// AdminDeleteSection removes a section and its lectures, then refreshes the
// course totals and every enrollment's percentage.
func AdminDeleteSection(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)
	ctx := c.UserContext()

	section, err := deps.Catalog.DeleteSection(ctx, sectionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	refreshStats(ctx, section.CourseID, true)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

func AdminCreateLecture(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLecture").(*validators.CreateLectureRequest)
	ctx := c.UserContext()

	lecture := courseModels.Lecture{
		SectionID:       reqData.SectionID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		VideoURL:        reqData.VideoURL,
		DurationSeconds: reqData.DurationSeconds,
		OrderIndex:      reqData.OrderIndex,
	}
	if err := deps.Catalog.CreateLecture(ctx, &lecture); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	refreshStats(ctx, lecture.CourseID, true)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture created successfully!", lecture)
}

func AdminUpdateLecture(c *fiber.Ctx) error {
	lectureID := c.Locals("lectureID").(uint)
	reqData := c.Locals("validatedLectureUpdate").(*validators.UpdateLectureRequest)
	ctx := c.UserContext()

	updates := reqData.Updates()
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No fields to update!", nil)
	}
	lecture, err := deps.Catalog.UpdateLecture(ctx, lectureID, updates)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if _, ok := updates["duration_seconds"]; ok {
		refreshStats(ctx, lecture.CourseID, false)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully!", lecture)
}

func AdminDeleteLecture(c *fiber.Ctx) error {
	lectureID := c.Locals("lectureID").(uint)
	ctx := c.UserContext()

	lecture, err := deps.Catalog.DeleteLecture(ctx, lectureID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	refreshStats(ctx, lecture.CourseID, true)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully!", nil)
}

func AdminCreateQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedQuiz").(*validators.CreateQuizRequest)

	questions := make([]courseModels.Question, len(reqData.Questions))
	for i, q := range reqData.Questions {
		questions[i] = courseModels.Question{
			ID:             uuid.NewString(),
			Type:           q.Type,
			Prompt:         q.Prompt,
			Options:        q.Options,
			CorrectAnswer:  q.CorrectAnswer,
			CorrectAnswers: q.CorrectAnswers,
		}
	}

	quiz := courseModels.Quiz{
		CourseID:     courseID,
		SectionID:    reqData.SectionID,
		Title:        reqData.Title,
		Questions:    questions,
		PassingScore: reqData.PassingScore,
		MaxAttempts:  reqData.MaxAttempts,
		IsPublished:  true,
	}
	if err := deps.Catalog.CreateQuiz(c.UserContext(), &quiz); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// AdminRecomputeCourse rebuilds course totals and every enrollment's progress
func AdminRecomputeCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	ctx := c.UserContext()

	stats, err := deps.Stats.Recompute(ctx, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	updated, err := deps.Progress.RecomputeCourse(ctx, courseID)
	if err != nil {
		deps.Log.Warn("course recompute incomplete", "course_id", courseID, "updated", updated, "error", err)
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course recomputed successfully!", fiber.Map{
		"stats":               stats,
		"enrollments_updated": updated,
	})
}

// refreshStats rebuilds the course totals after a structural edit. When the
// lecture count changed the enrollments are recomputed as well. Failures are
// logged; the admin recompute endpoint repairs them.
func refreshStats(ctx context.Context, courseID uint, lecturesChanged bool) {
	if _, err := deps.Stats.Recompute(ctx, courseID); err != nil {
		deps.Log.Error("course stats recompute failed", "course_id", courseID, "error", err)
		return
	}
	if !lecturesChanged {
		return
	}
	if n, err := deps.Progress.RecomputeCourse(ctx, courseID); err != nil {
		deps.Log.Error("enrollment recompute failed", "course_id", courseID, "updated", n, "error", err)
	}
}

// AdminDeleteQuiz hides a quiz from learners. Attempts already open on it can
// still be submitted.
func AdminDeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	quiz, err := deps.Catalog.DeleteQuiz(c.UserContext(), quizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	deps.Log.Info("quiz deleted", "quiz_id", quizID, "course_id", quiz.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}
