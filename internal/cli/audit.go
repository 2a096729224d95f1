package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bvale/assetbridge/internal/db"
)

const defaultAuditLimit = 20

// NewAuditCmd creates the audit command
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent asset lookups",
		Long:  `Display the most recent asset lookups and whether each was answered from the cache or the remote API.`,
		RunE:  runAudit,
	}
	cmd.Flags().IntP("limit", "n", defaultAuditLimit, "Number of lookup entries to show")

	return cmd
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cli, err := NewCLI()
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer func() {
		if closeErr := cli.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
		}
	}()

	if cli.DB == nil {
		return fmt.Errorf("audit database is unavailable")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	lookups, err := db.NewAuditStore(cli.DB).RecentLookups(cli.Context(), int64(limit))
	if err != nil {
		return fmt.Errorf("failed to query audit log: %w", err)
	}

	if len(lookups) == 0 {
		fmt.Println("No lookups recorded yet.")
		return nil
	}

	// Create tabwriter for aligned output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "WHEN\tTAG\tSOURCE\tFOUND")
	for _, l := range lookups {
		found := "yes"
		if !l.Found {
			found = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			l.LookedUpAt.Format("2006-01-02 15:04:05"), l.Tag, l.Source, found)
	}

	return nil
}
