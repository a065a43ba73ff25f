// Package cli exposes the core operations as cobra commands. Every domain
// command acts on behalf of the employee named by --as and is gated by the
// same access policy as the HTTP API.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pawnledger/internal/config"
	"pawnledger/internal/core/access"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/logger"
)

// Deps is what the commands run against. Close, when set, releases what the
// loader opened and runs once the command finishes.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Registry *services.Registry
	Close    func() error
}

// Loader opens the dependencies on first use
type Loader func() (*Deps, error)

// DefaultLoader reads the environment, opens the configured database and
// builds the services
func DefaultLoader() Loader {
	return func() (*Deps, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return openDeps(cfg)
	}
}

// openDeps installs the process logger and connects the store. Logs go to
// cfg.Log.Output so stdout carries nothing but command results.
func openDeps(cfg *config.Config) (*Deps, error) {
	logger.Init(cfg.LoggerOptions())

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	reg, err := services.NewRegistry(db, services.AuthConfig{
		Secret:        cfg.JWT.Secret,
		ExpiryMinutes: cfg.JWT.AccessTokenMins,
	}, services.SystemClock(cfg.Location))
	if err != nil {
		_ = config.CloseDatabase(db)
		return nil, err
	}

	return &Deps{
		Config:   cfg,
		DB:       db,
		Registry: reg,
		Close:    func() error { return config.CloseDatabase(db) },
	}, nil
}

type app struct {
	load Loader
	deps *Deps
	out  io.Writer
	as   uint
}

// NewRootCommand builds the command tree. Results are written to out as JSON.
func NewRootCommand(load Loader, out io.Writer) *cobra.Command {
	if out == nil {
		out = os.Stdout
	}
	a := &app{load: load, out: out}

	rootCmd := &cobra.Command{
		Use:           "pawnledger",
		Short:         "Pawnshop back office",
		Long:          `pawnledger manages clients, staff, collateralized loans, unclaimed items and their resale.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	rootCmd.PersistentFlags().UintVar(&a.as, "as", 0, "ID of the employee performing the operation")

	rootCmd.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newSeedCommand(a),
		newCreateLoanCommand(a),
		newPayLoanCommand(a),
		newSweepOverdueCommand(a),
		newConvertCommand(a),
		newRecordSaleCommand(a),
	)
	return rootCmd
}

func (a *app) dependencies() (*Deps, error) {
	if a.deps != nil {
		return a.deps, nil
	}
	deps, err := a.load()
	if err != nil {
		return nil, err
	}
	a.deps = deps
	return deps, nil
}

// close releases the loaded dependencies. Cobra skips post-run hooks when a
// command fails, so fail calls it too.
func (a *app) close() error {
	deps := a.deps
	a.deps = nil
	if deps == nil || deps.Close == nil {
		return nil
	}
	return deps.Close()
}

// authorize resolves --as against the live employee table and checks perm
func (a *app) authorize(ctx context.Context, perm access.Permission) (*Deps, *access.Identity, error) {
	deps, err := a.dependencies()
	if err != nil {
		return nil, nil, err
	}
	if a.as == 0 {
		return nil, nil, &domain.AppError{Kind: domain.KindUnauthorized, Message: "--as <employee-id> is required"}
	}

	identity, err := deps.Registry.Gate.Authorize(ctx, a.as, perm)
	if err != nil {
		return nil, nil, err
	}
	return deps, identity, nil
}
