package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/adapters/http/routes"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/config"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/filestore"

	"github.com/gofiber/fiber/v2"

	_ "github.com/emureccima/corporate-sub000/docs" // Swagger docs
)

// @title EMURECCIMA Cooperative API
// @version 1.0
// @description Membership, savings, loan and withdrawal management API for the EMURECCIMA cooperative society
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@emureccima.org

// @host api.emureccima.org
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed the bootstrap admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("Warning: failed to seed admin account: %v", err)
	}

	// Connect to redis (directory cache; the app runs without it)
	redisClient := config.ConnectRedis(cfg)

	// Proof-of-payment file store
	files, err := filestore.New(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize upload directory: %v", err)
	}

	// Nightly repair and cleanup jobs
	memberRepo := repositories.NewMemberRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	memberService := services.NewMemberService(memberRepo, paymentRepo, cfg)
	cronService := services.NewCronService(memberService, refreshTokenRepo)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EMURECCIMA Cooperative API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass dependencies for injection)
	routes.Setup(app, db, redisClient, files, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
