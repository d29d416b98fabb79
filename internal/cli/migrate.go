package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tomatocr/cotizador/internal/app"
	"tomatocr/cotizador/internal/app/config"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the cotizaciones and config_global tables (postgres backend)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(true)
		if err != nil {
			return err
		}
		defer log.Sync()
		if cfg.StoreBackend != config.BackendPostgres {
			return fmt.Errorf("migrate needs STORE_BACKEND=postgres; manage the Supabase schema from its dashboard")
		}

		backend, err := app.OpenBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer backend.Close()
		if err := backend.DB.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
