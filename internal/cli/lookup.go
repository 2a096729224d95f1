package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bvale/assetbridge/internal/assets"
	"github.com/bvale/assetbridge/internal/cli/styles"
)

// NewLookupCmd creates the lookup command
func NewLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <tag> [tag...]",
		Short: "Look up asset records by tag",
		Long: `Look up one or more asset records by their asset tag.

Each tag is answered from the local cache when possible; otherwise the
remote tracking API is queried and the result is cached for later lookups.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLookup,
	}
	cmd.Flags().BoolP("cached", "c", false, "Only answer from the cache, never query the remote API")

	return cmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	cli, err := NewCLI()
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer func() {
		if closeErr := cli.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
		}
	}()

	ctx := cli.Context()
	cachedOnly, _ := cmd.Flags().GetBool("cached")
	theme := styles.Default()

	var failures int
	for _, tag := range args {
		var (
			asset  *assets.Asset
			source string
		)

		if cachedOnly {
			cached, ok := cli.Service.Cached(tag)
			if !ok {
				fmt.Printf("%s %s\n", theme.ErrorStyle.Render("not cached:"), tag)
				failures++
				continue
			}
			asset, source = cached, assets.SourceCache
		} else {
			asset, source, err = cli.Service.Lookup(ctx, tag)
			if err != nil {
				fmt.Printf("%s %s: %v\n", theme.ErrorStyle.Render("lookup failed:"), tag, err)
				failures++
				continue
			}
			if asset == nil {
				fmt.Printf("%s %s\n", theme.Subtle.Render("not found:"), tag)
				continue
			}
		}

		printAsset(theme, source, asset)
	}

	if failures > 0 {
		return fmt.Errorf("%d lookup(s) failed", failures)
	}
	return nil
}

func printAsset(theme *styles.Theme, source string, asset *assets.Asset) {
	fmt.Printf("%s %s %s\n", theme.Title.Render(asset.Tag), theme.StatusBadge(asset.Status), theme.SourceBadge(source))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  %s\t%s\n", theme.Label.Render("name"), theme.Value.Render(asset.Name))
	fmt.Fprintf(w, "  %s\t%s\n", theme.Label.Render("model"), theme.Value.Render(asset.Model))
	fmt.Fprintf(w, "  %s\t%s\n", theme.Label.Render("serial"), theme.Value.Render(asset.Serial))
	if asset.AssignedTo != "" {
		fmt.Fprintf(w, "  %s\t%s\n", theme.Label.Render("assigned"), theme.Value.Render(asset.AssignedTo))
	}
	w.Flush()
}
