package courseRoutes

import (
	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	validators "coursetrack/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course", middleware.JWTMiddleware)

	// Enrollment
	userGroup.Post("/:id/enroll", validators.EnrollCourse(), controllers.EnrollInCourse)

	// Lecture progress
	userGroup.Put("/:course_id/lecture/:lecture_id/watch", validators.MarkLectureWatched(), controllers.MarkLectureWatched)
	userGroup.Post("/:course_id/lecture/:lecture_id/complete", validators.MarkLectureComplete(), controllers.MarkLectureComplete)
	userGroup.Get("/:course_id/progress", validators.GetCourseProgress(), controllers.GetUserProgress)

	// Quizzes
	userGroup.Post("/:course_id/quiz/:quiz_id/attempt", validators.StartQuiz(), controllers.StartQuizAttempt)
	userGroup.Get("/:course_id/quiz/:quiz_id/results", validators.QuizResults(), controllers.GetQuizResults)

	attemptGroup := app.Group("/quiz/attempt", middleware.JWTMiddleware)
	attemptGroup.Post("/:attempt_id/submit", validators.SubmitQuiz(), controllers.SubmitQuizAttempt)

	// Certificates
	userGroup.Get("/:course_id/certificate/eligibility", validators.CertificateRequest(), controllers.GetCertificateEligibility)
	userGroup.Post("/:course_id/certificate", validators.CertificateRequest(), controllers.IssueCertificate)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
