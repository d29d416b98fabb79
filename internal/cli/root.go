// Package cli is the cotizador command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tomatocr/cotizador/internal/app/config"
	"tomatocr/cotizador/internal/infra/observability"
)

var rootCmd = &cobra.Command{
	Use:           "cotizador",
	Short:         "Quotation builder for TOMATO CR",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the command selected by os.Args.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and builds the logger shared by commands.
// Commands that talk to the remote store also validate the config.
func setup(validate bool) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return cfg, nil, err
		}
	}
	log, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
