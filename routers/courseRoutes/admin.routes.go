package courseRoutes

import (
	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	"coursetrack/models"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminOnly := []fiber.Handler{middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin)}

	adminGroup := app.Group("/admin/course", adminOnly...)

	// Course
	adminGroup.Post("/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Post("/:course_id/publish", validators.PublishCourse(), controllers.AdminPublishCourse)
	adminGroup.Post("/:course_id/recompute", validators.RecomputeCourse(), controllers.AdminRecomputeCourse)

	// Sections
	adminGroup.Post("/:course_id/section", validators.CreateSection(), controllers.AdminCreateSection)
	sectionGroup := app.Group("/admin/section", adminOnly...)
	sectionGroup.Put("/:section_id", validators.UpdateSection(), controllers.AdminUpdateSection)
	sectionGroup.Delete("/:section_id", validators.DeleteSection(), controllers.AdminDeleteSection)

	// Lectures
	lectureGroup := app.Group("/admin/lecture", adminOnly...)
	lectureGroup.Post("/", validators.CreateLecture(), controllers.AdminCreateLecture)
	lectureGroup.Put("/:lecture_id", validators.UpdateLecture(), controllers.AdminUpdateLecture)
	lectureGroup.Delete("/:lecture_id", validators.DeleteLecture(), controllers.AdminDeleteLecture)

	// Quizzes
	adminGroup.Post("/:course_id/quiz", validators.CreateQuiz(), controllers.AdminCreateQuiz)
	quizGroup := app.Group("/admin/quiz", adminOnly...)
	quizGroup.Delete("/:quiz_id", validators.DeleteQuiz(), controllers.AdminDeleteQuiz)

	// Enrollment & Progress Tracking
	adminGroup.Get("/:course_id/enrollments", validators.GetCourseEnrollments(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:course_id/student/:user_id/progress", validators.GetStudentProgress(), controllers.AdminGetStudentProgress)
}
