package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bvale/assetbridge/internal/importer"
)

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Pre-warm the cache from a CSV inventory export",
		Long: `Import an asset inventory CSV export and store every record in the
lookup cache, so subsequent lookups are answered locally.

The CSV header must contain the columns:
  asset_tag, name, serial, model, status, assigned_to`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(_ *cobra.Command, args []string) error {
	cli, err := NewCLI()
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer func() {
		if closeErr := cli.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
		}
	}()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	result, err := importer.Import(cli.Context(), file, cli.Service)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d asset(s), skipped %d row(s).\n", result.Imported, result.Skipped)
	return nil
}
