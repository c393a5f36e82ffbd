package controllers

import (
	"coursetrack/database"
	"coursetrack/logger"
	"coursetrack/services/certificate"
	"coursetrack/services/coursestats"
	"coursetrack/services/progress"
	"coursetrack/services/quiz"
)

// Dependencies are the services the course handlers call into.
type Dependencies struct {
	Enrollments  *database.EnrollmentStore
	Catalog      *database.CatalogStore
	Progress     *progress.Tracker
	Quizzes      *quiz.Tracker
	Stats        *coursestats.Aggregator
	Certificates *certificate.Service
	Log          *logger.Logger
}

var deps *Dependencies

// Setup installs the dependencies used by every handler in this package.
func Setup(d *Dependencies) {
	deps = d
}
