package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tomatocr/cotizador/internal/app/config"
	"tomatocr/cotizador/internal/domain/quote"
	pdfgen "tomatocr/cotizador/internal/domain/quote/pdf/gofpdf"
	"tomatocr/cotizador/internal/domain/quote/render"
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("in", "i", "-", "Quote JSON file, - for stdin")
	renderCmd.Flags().StringP("format", "f", "pdf", "Output format: html or pdf")
	renderCmd.Flags().StringP("out", "o", "-", "Output file, - for stdout")
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a quote JSON file to HTML or PDF",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	cfg, log, err := setup(false)
	if err != nil {
		return err
	}
	defaults, brand, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}

	var data []byte
	if in == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		return err
	}
	q, err := quote.Decode(data, defaults, time.Now())
	if err != nil {
		return err
	}

	var doc []byte
	switch format {
	case "html":
		doc, err = render.New(brand).Render(q, q.Totals())
	case "pdf":
		doc, err = pdfgen.New(pdfgen.Options{FontDir: cfg.PDFFontDir, Branding: brand, Logger: log}).Generate(q, q.Totals())
	default:
		return fmt.Errorf("unknown format %q (want html or pdf)", format)
	}
	if err != nil {
		return err
	}

	if out == "-" {
		_, err = cmd.OutOrStdout().Write(doc)
		return err
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(doc))
	return nil
}
