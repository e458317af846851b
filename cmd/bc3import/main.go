// Command bc3import imports a BC3 file from the command line, without
// going through the HTTP server. Useful for backfills and for smoke
// testing a file before handing it to end users.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jvaldeolmillos/bc3-import/internal/config"
	"github.com/jvaldeolmillos/bc3-import/internal/database"
	"github.com/jvaldeolmillos/bc3-import/internal/importer"
	"github.com/jvaldeolmillos/bc3-import/internal/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "bc3import <file.bc3>",
		Short: "Import a BC3 budget file as a quotation order",
		Long: `bc3import reads a BC3 (FIEBDC-3) budget exchange file, extracts its
concept records, reconciles them against the catalog, and creates a
quotation order with one line per concept.

The database connection comes from DATABASE_URL (a .env file in the
working directory is honored).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], title)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "order title (default: the file name)")
	return cmd
}

func runImport(ctx context.Context, path, title string) error {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if title == "" {
		title = filepath.Base(path)
	}

	service := importer.NewService(&importer.PgRunner{Pool: pool}, cfg.Import.DefaultUom)
	result, err := service.Import(ctx, title, data)
	if err != nil {
		msg := importer.MapError(err)
		return fmt.Errorf("%s (%s): %s", msg.Message, msg.Code, msg.Action)
	}

	fmt.Printf("Imported %d lines into order %s (%q)\n", result.Lines, result.OrderID, result.Title)
	if result.Stats.Malformed > 0 || result.Stats.PriceErrors > 0 {
		fmt.Printf("Skipped lines: %d malformed, %d with bad prices\n",
			result.Stats.Malformed, result.Stats.PriceErrors)
	}
	return nil
}
