package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"pawnledger/internal/adapters/http/handlers"
	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/config"
	"pawnledger/internal/core/access"
	"pawnledger/internal/core/services"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, reg *services.Registry, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg.AppMode)
	authHandler := handlers.NewAuthHandler(reg.Auth, reg.Policy, cfg)
	clientHandler := handlers.NewClientHandler(reg.Clients)
	employeeHandler := handlers.NewEmployeeHandler(reg.Employees)
	loanHandler := handlers.NewLoanHandler(reg.Loans, reg.Rates, reg.Clock)
	unclaimedHandler := handlers.NewUnclaimedHandler(reg.Unclaimed)
	saleHandler := handlers.NewSaleHandler(reg.Sales)
	dashboardHandler := handlers.NewDashboardHandler(reg.Dashboard)
	reportHandler := handlers.NewReportHandler(reg.Reports)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(reg.Auth), middleware.RequireActive(reg.Gate), authHandler.Me)

	// Everything below requires a session
	protected := apiV1.Group("", middleware.AuthMiddleware(reg.Auth))
	can := func(perm access.Permission) fiber.Handler {
		return middleware.RequirePermission(reg.Gate, perm)
	}

	protected.Get("/dashboard", middleware.RequireActive(reg.Gate), dashboardHandler.GetDashboard)

	clients := protected.Group("/clients")
	clients.Get("/", can(access.ViewClients), clientHandler.List)
	clients.Get("/:id", can(access.ViewClients), clientHandler.Get)
	clients.Post("/", can(access.AddClients), clientHandler.Create)
	clients.Put("/:id", can(access.EditClients), clientHandler.Update)
	clients.Delete("/:id", can(access.DeleteClients), clientHandler.Delete)

	employees := protected.Group("/employees")
	employees.Get("/", can(access.ViewEmployees), employeeHandler.List)
	employees.Get("/:id", can(access.ViewEmployees), employeeHandler.Get)
	employees.Post("/", can(access.AddEmployees), employeeHandler.Create)
	employees.Put("/:id", can(access.EditEmployees), employeeHandler.Update)
	employees.Post("/:id/dismiss", can(access.DismissEmployees), employeeHandler.Dismiss)

	loans := protected.Group("/loans")
	loans.Get("/", can(access.ViewLoans), loanHandler.List)
	loans.Get("/autocomplete", can(access.AddLoans), loanHandler.Autocomplete)
	loans.Get("/rates", can(access.ViewLoans), loanHandler.Rates)
	loans.Post("/sweep", can(access.EditLoans), loanHandler.Sweep)
	loans.Get("/:code", can(access.ViewLoans), loanHandler.Get)
	loans.Post("/", can(access.AddLoans), loanHandler.Create)
	loans.Post("/:code/pay", can(access.PayLoans), loanHandler.Pay)

	unclaimed := protected.Group("/unclaimed")
	unclaimed.Get("/", can(access.ViewUnclaimed), unclaimedHandler.List)
	unclaimed.Get("/convertible", can(access.AddUnclaimed), unclaimedHandler.Convertible)
	unclaimed.Get("/:article", can(access.ViewUnclaimed), unclaimedHandler.Get)
	unclaimed.Post("/", can(access.AddUnclaimed), unclaimedHandler.Convert)

	sales := protected.Group("/sales")
	sales.Get("/", can(access.ViewSales), saleHandler.List)
	sales.Get("/unsold", can(access.AddSales), saleHandler.Unsold)
	sales.Get("/sellers", can(access.AddSales), saleHandler.Sellers)
	sales.Get("/:code", can(access.ViewSales), saleHandler.Get)
	sales.Post("/", can(access.AddSales), saleHandler.Create)

	reports := protected.Group("/reports", can(access.ViewReports))
	reports.Get("/quarterly", reportHandler.Quarterly)
	reports.Get("/status", reportHandler.StatusBreakdown)
	reports.Get("/periods", reportHandler.Periods)
}
