package cli

import (
	"github.com/spf13/cobra"

	"pawnledger/internal/config"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := a.dependencies()
			if err != nil {
				return a.fail(err)
			}
			if err := config.Migrate(deps.DB); err != nil {
				return a.fail(err)
			}
			return a.succeed(map[string]string{"status": "migrated"})
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the interest rate grid and the initial administrator",
		Long:  `Create the default interest rate grid and, when no employee exists yet, the initial Administrator. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := a.dependencies()
			if err != nil {
				return a.fail(err)
			}
			seeder := config.NewSeeder(
				deps.Registry.Rates,
				deps.Registry.Employees,
				deps.Registry.EmployeeRepo,
				deps.Config.Seed,
			)
			res, err := seeder.Run(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			return a.succeed(res)
		},
	}
}
