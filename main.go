package main

import (
	"coursetrack/config"
	authController "coursetrack/controllers/auth"
	courseControllers "coursetrack/controllers/course"
	superAdminController "coursetrack/controllers/superAdmin"
	userProfileController "coursetrack/controllers/userControllers"
	"coursetrack/database"
	"coursetrack/logger"
	authRoutes "coursetrack/routers/authRoutes"
	courseRoutes "coursetrack/routers/courseRoutes"
	superAdminRoutes "coursetrack/routers/superAdmin"
	userProfileRoutes "coursetrack/routers/userRoutes"
	"coursetrack/services/certificate"
	"coursetrack/services/coursestats"
	"coursetrack/services/progress"
	"coursetrack/services/quiz"
	"coursetrack/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database.ConnectDb()
	db := database.Database.Db

	enrollments := database.NewEnrollmentStore(db, cfg.UpdateRetryLimit)
	attempts := database.NewAttemptStore(db, cfg.UpdateRetryLimit)
	catalog := database.NewCatalogStore(db)
	certificates := database.NewCertificateStore(db, enrollments)

	notifier := utils.NewEmailNotifier(cfg.SendgridAPIKey, cfg.EmailSender, cfg.EmailSenderName, catalog, log)
	renderer := utils.NewCertificateRenderer(cfg.CertificateRendererURL, cfg.CertificateRendererTimeout)

	progressTracker := progress.NewTracker(enrollments, catalog, notifier, log)
	quizTracker := quiz.NewTracker(attempts, enrollments, catalog, notifier, log)
	stats := coursestats.NewAggregator(catalog, log)
	certificateService := certificate.NewService(certificates, catalog, renderer, notifier, log)

	users := database.NewUserStore(db)
	authController.Setup(users, log.With("component", "auth"))
	superAdminController.Setup(users, log.With("component", "admin"))
	userProfileController.Setup(users, enrollments)
	courseControllers.Setup(&courseControllers.Dependencies{
		Enrollments:  enrollments,
		Catalog:      catalog,
		Progress:     progressTracker,
		Quizzes:      quizTracker,
		Stats:        stats,
		Certificates: certificateService,
		Log:          log.With("component", "http"),
	})

	scheduler, err := utils.InitializeReconcileScheduler(cfg.ReconcileSchedule, quizTracker, certificateService, log)
	if err != nil {
		log.Fatal("invalid reconcile schedule", "schedule", cfg.ReconcileSchedule, "error", err)
	}
	defer scheduler.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	log.Info("server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
