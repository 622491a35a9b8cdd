package routes

import (
	"github.com/emureccima/corporate-sub000/internal/adapters/http/handlers"
	"github.com/emureccima/corporate-sub000/internal/adapters/http/middleware"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/config"
	"github.com/emureccima/corporate-sub000/internal/core/services"
	"github.com/emureccima/corporate-sub000/internal/pkg/filestore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, redisClient *redis.Client, files *filestore.Store, cfg *config.Config) {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	savingsRepo := repositories.NewSavingsRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	businessRepo := repositories.NewBusinessRepository(db)

	// Initialize services
	authService := services.NewAuthService(memberRepo, refreshTokenRepo, cfg)
	memberService := services.NewMemberService(memberRepo, paymentRepo, cfg)
	savingsService := services.NewSavingsService(savingsRepo, memberRepo)
	loanService := services.NewLoanService(loanRepo, paymentRepo, memberRepo)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, savingsRepo, savingsService)
	directoryService := services.NewDirectoryService(businessRepo, redisClient)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	paymentHandler := handlers.NewPaymentHandler(memberService, files, cfg)
	savingsHandler := handlers.NewSavingsHandler(savingsService)
	loanHandler := handlers.NewLoanHandler(loanService, files)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Use(middleware.AuthRateLimiter())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Payment routes (authenticated; PENDING members pay their fee here)
	paymentRoutes := apiV1.Group("/payments")
	paymentRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPaymentRoutes(paymentRoutes, paymentHandler)

	// Savings routes (authenticated)
	savingsRoutes := apiV1.Group("/savings")
	savingsRoutes.Use(middleware.AuthMiddleware(cfg))
	setupSavingsRoutes(savingsRoutes, savingsHandler)

	// Loan routes (authenticated)
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Withdrawal routes (authenticated)
	withdrawalRoutes := apiV1.Group("/withdrawals")
	withdrawalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupWithdrawalRoutes(withdrawalRoutes, withdrawalHandler)

	// Directory routes (authenticated)
	directoryRoutes := apiV1.Group("/directory")
	directoryRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDirectoryRoutes(directoryRoutes, directoryHandler)

	// Admin routes
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, memberHandler, paymentHandler, savingsHandler, loanHandler, withdrawalHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	router.Post("/register", handler.Register)
	router.Post("/login", handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupPaymentRoutes configures member payment routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	router.Get("/registration/details", handler.Details)
	router.Post("/registration", handler.SubmitRegistration)
	router.Get("/me", handler.MyPayments)
}

// setupSavingsRoutes configures savings ledger routes
func setupSavingsRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	router.Post("/deposits", handler.Deposit)
	router.Get("/balance", handler.Balance)
	router.Get("/entries", handler.Entries)
}

// setupLoanRoutes configures member loan routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.Submit)
	router.Get("/me", handler.MyLoans)
	router.Get("/:id", handler.Get)
	router.Post("/:id/repayments", handler.SubmitRepayment)
}

// setupWithdrawalRoutes configures member withdrawal routes
func setupWithdrawalRoutes(router fiber.Router, handler *handlers.WithdrawalHandler) {
	router.Post("/", handler.Request)
	router.Get("/me", handler.MyWithdrawals)
}

// setupDirectoryRoutes configures business directory routes
func setupDirectoryRoutes(router fiber.Router, handler *handlers.DirectoryHandler) {
	router.Get("/", handler.List)
	router.Get("/me", handler.MyListings)
	router.Post("/", handler.Create)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupAdminRoutes configures admin-only routes
func setupAdminRoutes(
	router fiber.Router,
	memberHandler *handlers.MemberHandler,
	paymentHandler *handlers.PaymentHandler,
	savingsHandler *handlers.SavingsHandler,
	loanHandler *handlers.LoanHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
) {
	// Members
	router.Get("/members", memberHandler.List)
	router.Get("/members/:id", memberHandler.Get)
	router.Patch("/members/:id/status", memberHandler.UpdateStatus)

	// Payments
	router.Get("/payments", paymentHandler.List)
	router.Get("/payments/proof/:fileID", paymentHandler.Proof)
	router.Post("/payments/:id/confirm", paymentHandler.ConfirmRegistration)
	router.Post("/payments/:id/reject", paymentHandler.RejectRegistration)

	// Savings
	router.Get("/savings/pending", savingsHandler.PendingEntries)
	router.Post("/savings/:id/confirm", savingsHandler.ConfirmEntry)
	router.Post("/savings/:id/reject", savingsHandler.RejectEntry)

	// Loans
	router.Get("/loans", loanHandler.List)
	router.Post("/loans/:id/approve", loanHandler.Approve)
	router.Post("/loans/:id/reject", loanHandler.Reject)
	router.Post("/repayments/:id/confirm", loanHandler.ConfirmRepayment)
	router.Post("/repayments/:id/reject", loanHandler.RejectRepayment)

	// Withdrawals
	router.Get("/withdrawals", withdrawalHandler.List)
	router.Post("/withdrawals/:id/approve", withdrawalHandler.Approve)
	router.Post("/withdrawals/:id/reject", withdrawalHandler.Reject)
}
