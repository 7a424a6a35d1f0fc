package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rojgarsetu/backend/internal/config"
	"github.com/rojgarsetu/backend/internal/db"
	"github.com/rojgarsetu/backend/internal/handlers"
	"github.com/rojgarsetu/backend/internal/mailer"
	"github.com/rojgarsetu/backend/internal/middleware"
	"github.com/rojgarsetu/backend/internal/models"
	"github.com/rojgarsetu/backend/internal/repository"
	"github.com/rojgarsetu/backend/internal/services"
	"github.com/rojgarsetu/backend/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg := config.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to MongoDB and the resume bucket
	database := db.ConnectMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
	resumeBucket := db.NewResumeBucket(database)

	// Object store for company logos
	logoStore := storage.NewLogoStore(cfg.MinIO)

	userRepo := repository.NewUserRepo(database)
	jobRepo := repository.NewJobRepo(database)
	referralRepo := repository.NewReferralRepo(database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	mail := mailer.NewSMTPSender(cfg.SMTP)

	authService := services.NewAuthService(userRepo, cfg.JWT, zapLogger)
	userService := services.NewUserService(userRepo, mail, zapLogger, cfg.SMTP.SiteName, cfg.Server.BaseURL+"/login")
	jobService := services.NewJobService(jobRepo, userRepo, zapLogger)
	referralService := services.NewReferralService(referralRepo, mail, zapLogger, cfg.SMTP.SiteName)
	resumeService := services.NewResumeService(resumeBucket, userRepo, zapLogger)
	logoService := services.NewLogoService(logoStore, userRepo, zapLogger)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	jobHandler := handlers.NewJobHandler(jobService)
	referralHandler := handlers.NewReferralHandler(referralService)
	resumeHandler := handlers.NewResumeHandler(resumeService)
	logoHandler := handlers.NewLogoHandler(logoService)

	// Initialize Fiber
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	protected := middleware.Protected(cfg.JWT.Secret)

	// Auth Routes
	auth := app.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/change-password", protected, authHandler.ChangePassword)

	// User management (admin only)
	users := app.Group("/users", protected, middleware.RequireAdmin())
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Self-service profile
	profile := app.Group("/profile", protected)
	profile.Get("/", userHandler.GetProfile)
	profile.Put("/", userHandler.UpdateProfile)

	// Jobs and applications
	jobs := app.Group("/jobs", protected)
	jobs.Post("/", middleware.RequireRole(models.RoleJobPoster), jobHandler.Create)
	jobs.Get("/", jobHandler.ListOpen)
	jobs.Get("/mine", middleware.RequireRole(models.RoleJobPoster), jobHandler.ListMine)
	jobs.Get("/:id", jobHandler.Get)
	jobs.Put("/:id", middleware.RequireRole(models.RoleJobPoster), jobHandler.Update)
	jobs.Post("/:id/close", middleware.RequireRole(models.RoleJobPoster), jobHandler.Close)
	jobs.Delete("/:id", middleware.RequireRole(models.RoleJobPoster, models.RoleAdmin), jobHandler.Delete)
	jobs.Post("/:id/apply", middleware.RequireRole(models.RoleJobSeeker), jobHandler.Apply)
	jobs.Get("/:id/applications", middleware.RequireRole(models.RoleJobPoster), jobHandler.ListApplicants)
	app.Put("/applications/:id", protected, middleware.RequireRole(models.RoleJobPoster), jobHandler.UpdateApplication)

	// Referral codes
	referrals := app.Group("/referrals", protected)
	referrals.Post("/", middleware.RequireAdmin(), referralHandler.Issue)
	referrals.Post("/batch", middleware.RequireAdmin(), referralHandler.IssueBatch)
	referrals.Get("/", middleware.RequireAdmin(), referralHandler.List)
	referrals.Post("/redeem", referralHandler.Redeem)

	// Resumes (GridFS) and company logos (object store)
	app.Post("/resume", protected, middleware.RequireRole(models.RoleJobSeeker), resumeHandler.Upload)
	app.Get("/resume/:userid", protected, resumeHandler.Download)
	app.Post("/logo", protected, middleware.RequireRole(models.RoleJobPoster), logoHandler.Upload)
	app.Get("/logo/:userid", protected, logoHandler.URL)

	// Start server
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
