package routes

import (
	"log"

	"prestanet/internal/adapters/cache"
	"prestanet/internal/adapters/http/handlers"
	"prestanet/internal/adapters/http/middleware"
	"prestanet/internal/adapters/persistence/repositories"
	"prestanet/internal/config"
	"prestanet/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so the caller can start and stop it with the server.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	clientRepo := repositories.NewClientRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	balanceRepo := repositories.NewBalanceRepository(db)
	receiptRepo := repositories.NewReceiptRepository(db)

	// Schedule cache: redis when configured, otherwise in-process noop
	scheduleCache := newScheduleCache(cfg)

	// Initialize services
	clientService := services.NewClientService(clientRepo, loanRepo)
	loanService := services.NewLoanService(loanRepo, clientRepo)
	projectionService := services.NewProjectionService(loanRepo, paymentRepo, scheduleCache)
	paymentService := services.NewPaymentService(loanRepo, paymentRepo, projectionService)
	balanceService := services.NewBalanceService(balanceRepo)
	receiptService := services.NewReceiptService(receiptRepo, loanRepo, paymentRepo)
	dashboardService := services.NewDashboardService(db)
	cronService := services.NewCronService(loanRepo, projectionService, cfg.ArrearsCronSpec)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	clientHandler := handlers.NewClientHandler(clientService, loanService)
	loanHandler := handlers.NewLoanHandler(loanService, projectionService, paymentService)
	balanceHandler := handlers.NewBalanceHandler(balanceService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupClientRoutes(apiV1.Group("/clients"), clientHandler)
	setupLoanRoutes(apiV1.Group("/loans"), loanHandler, receiptHandler)
	setupBalanceRoutes(apiV1.Group("/balance"), balanceHandler)
	setupReceiptRoutes(apiV1.Group("/receipts"), receiptHandler)
	setupDashboardRoutes(apiV1.Group("/dashboard"), dashboardHandler)

	return cronService
}

func newScheduleCache(cfg *config.Config) cache.ScheduleCache {
	if cfg.RedisAddr == "" {
		return cache.NoopCache{}
	}
	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	log.Printf("📦 Schedule cache: redis at %s", cfg.RedisAddr)
	return redisCache
}

// setupClientRoutes configures client routes
func setupClientRoutes(router fiber.Router, handler *handlers.ClientHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/loans", handler.GetLoans)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
}

// setupLoanRoutes configures loan, schedule and payment routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler, receiptHandler *handlers.ReceiptHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/schedule", handler.GetSchedule)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)

	// Payment mutations get the stricter limiter
	router.Put("/:id/payments/:payment_id/status", middleware.MutationRateLimiter(), handler.SetPaymentStatus)
	router.Post("/:id/payments/:payment_id/receipt", middleware.MutationRateLimiter(), receiptHandler.Issue)
	router.Get("/:id/receipts", receiptHandler.ListByLoan)
}

// setupBalanceRoutes configures balance ledger routes
func setupBalanceRoutes(router fiber.Router, handler *handlers.BalanceHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/summary", handler.Summary)
	router.Delete("/:id", handler.Delete)
}

// setupReceiptRoutes configures receipt lookup routes
func setupReceiptRoutes(router fiber.Router, handler *handlers.ReceiptHandler) {
	router.Get("/:id", handler.GetByID)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Use(middleware.DashboardCache())
	router.Get("/stats", handler.GetStats)
	router.Get("/upcoming", handler.GetUpcoming)
}
