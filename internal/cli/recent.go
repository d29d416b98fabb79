package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tomatocr/cotizador/internal/app"
	"tomatocr/cotizador/internal/app/config"
	"tomatocr/cotizador/internal/domain/quote/gateway"
	"tomatocr/cotizador/internal/domain/quote/local"
)

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntP("limit", "n", gateway.MaxRecent, "Number of quotes to list (max 20)")
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently saved quotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		cfg, log, err := setup(true)
		if err != nil {
			return err
		}
		defer log.Sync()

		backend, err := app.OpenBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer backend.Close()
		kvStore, err := app.OpenKV(cfg)
		if err != nil {
			return err
		}
		defer kvStore.Close()

		defaults, _, err := config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return err
		}
		svc := gateway.NewService(backend.Quotes, local.NewCounter(kvStore), defaults, log)
		rows := svc.ListRecent(cmd.Context(), limit)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNÚMERO\tCLIENTE\tFECHA\tTOTAL")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Number, r.ClientName, r.IssueDate, r.FormattedTotal())
		}
		if len(rows) == 0 {
			fmt.Fprintln(w, "-\t-\tNo hay historial en la nube\t-\t-")
		}
		return w.Flush()
	},
}
