package cli

import (
	"fmt"
	"strconv"

	"github.com/fekuna/omnipos-billing-service/config"
	"github.com/fekuna/omnipos-billing-service/internal/app"
	"github.com/fekuna/omnipos-billing-service/pkg/database/migrations"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand(log logger.ZapLogger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the billing database schema",
		Long: `migrate applies or rolls back the embedded schema migrations against the
database named by the POSTGRES_* environment variables.`,
	}

	databaseURL := func() string {
		return app.PostgresConfig(config.LoadEnv()).URL("pgx5")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrations.Up(databaseURL()); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [STEPS]",
		Short: "Roll back STEPS migrations, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			if err := migrations.Down(databaseURL(), steps); err != nil {
				return err
			}
			log.Info("migrations rolled back", zap.Int("steps", steps))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, dirty, err := migrations.Version(databaseURL())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", v, dirty)
			return nil
		},
	})
	return cmd
}
