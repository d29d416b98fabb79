package cli

import (
	"github.com/spf13/cobra"

	"tomatocr/cotizador/internal/app"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(true)
		if err != nil {
			return err
		}
		defer log.Sync()
		return app.Run(cmd.Context(), cfg, log)
	},
}
