package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/adapters/http/routes"
	"pawnledger/internal/config"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Migrate the schema, start the optional overdue sweep schedule and serve the REST API under /api/v1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := a.dependencies()
			if err != nil {
				return a.fail(err)
			}
			return serve(deps)
		},
	}
}

func serve(deps *Deps) error {
	cfg := deps.Config
	log := logger.WithComponent("server")
	defer func() {
		if err := config.CloseDatabase(deps.DB); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	// Auto migrate (creates tables if not exist)
	if err := config.Migrate(deps.DB); err != nil {
		return err
	}

	if cfg.Sweep.Cron != "" {
		cronService, err := services.NewCronService(deps.Registry.Loans, cfg.Sweep.Cron, cfg.Location)
		if err != nil {
			return err
		}
		cronService.Start()
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "pawnledger API v1",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, deps.DB, deps.Registry, cfg)

	// Graceful shutdown
	go gracefulShutdown(app, log)

	log.Info("server starting", "port", cfg.Port, "mode", cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return err
	}
	return nil
}

func gracefulShutdown(app *fiber.App, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server stopped gracefully")
}
