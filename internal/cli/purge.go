package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bvale/assetbridge/internal/cache"
	"github.com/bvale/assetbridge/internal/config"
)

// PurgeFlags holds all the purge command flags
type PurgeFlags struct {
	Snapshot bool
	Database bool
	All      bool
	Force    bool
}

// NewPurgeCmd creates the purge command
func NewPurgeCmd() *cobra.Command {
	var flags PurgeFlags

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Purge assetbridge data files",
		Long: `Purge assetbridge data files. By default, purges everything.

Available purge targets:
  --snapshot, -s  Purge the cache snapshot file (next run starts cold)
  --database, -d  Purge the lookup audit database
  --all, -a       Purge everything (default if no specific flags are provided)

Use --force to skip the confirmation prompt.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPurge(&flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Snapshot, "snapshot", "s", false, "Purge the cache snapshot file")
	cmd.Flags().BoolVarP(&flags.Database, "database", "d", false, "Purge the audit database")
	cmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Purge everything")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runPurge(flags *PurgeFlags) error {
	// Default to everything when no target is selected
	if !flags.Snapshot && !flags.Database {
		flags.All = true
	}
	if flags.All {
		flags.Snapshot = true
		flags.Database = true
	}

	targets, err := purgeTargets(flags)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("Nothing to purge.")
		return nil
	}

	if !flags.Force {
		fmt.Println("The following files will be removed:")
		for _, path := range targets {
			fmt.Printf("  %s\n", path)
		}
		fmt.Print("Continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var removeErrs []string
	for _, path := range targets {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			removeErrs = append(removeErrs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		fmt.Printf("Removed %s\n", path)
	}

	if len(removeErrs) > 0 {
		return fmt.Errorf("failed to purge:\n  %s", strings.Join(removeErrs, "\n  "))
	}
	return nil
}

// purgeTargets resolves the files selected by the flags, honoring configured
// path overrides. Missing files are kept in the list; removing them is a
// no-op. The cache itself is deliberately not constructed here: its Close
// would write a fresh snapshot right back.
func purgeTargets(flags *PurgeFlags) ([]string, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}
	cfg := config.Get()

	var targets []string

	if flags.Snapshot {
		snapshotDir := cfg.Cache.Dir
		if snapshotDir == "" {
			dir, err := config.GetSnapshotDir()
			if err != nil {
				return nil, fmt.Errorf("failed to resolve snapshot directory: %w", err)
			}
			snapshotDir = dir
		}
		targets = append(targets, filepath.Join(snapshotDir, cache.SnapshotFileName))
	}

	if flags.Database {
		targets = append(targets, cfg.Database.Path)
	}

	return targets, nil
}
