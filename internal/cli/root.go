// Package cli provides the command-line interface for assetbridge.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bvale/assetbridge/internal/assets"
	"github.com/bvale/assetbridge/internal/cache"
	"github.com/bvale/assetbridge/internal/config"
	"github.com/bvale/assetbridge/internal/db"
	"github.com/bvale/assetbridge/internal/logging"
)

// CLI holds the wired-up components shared by the commands.
type CLI struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Cache   *cache.Cache[assets.Asset]
	Service *assets.Service
	DB      *sql.DB // nil when the audit database is unavailable
}

// NewCLI loads configuration and wires the cache, API client, audit log, and
// lookup service together. An unavailable audit database is a warning, not a
// failure; lookups still work without it.
func NewCLI() (*CLI, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}
	cfg := config.Get()

	logCfg := logging.DefaultConfig()
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		logCfg.Level = level
	}
	logCfg.Format = cfg.Logging.Format
	logger := logging.New(logCfg)

	// Pick up config file edits made while a command is running. The logging
	// level is the only setting that can be applied to live components; the
	// rest takes effect on the next invocation.
	config.OnConfigChange(func(newCfg *config.Config) {
		if level, err := zerolog.ParseLevel(newCfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
		logger.Info().Str("level", newCfg.Logging.Level).Msg("configuration reloaded")
	})
	if err := config.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config file watch unavailable")
	}

	snapshotDir := cfg.Cache.Dir
	if snapshotDir == "" {
		dir, err := config.GetSnapshotDir()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to resolve snapshot directory, cache will be memory-only")
		} else {
			snapshotDir = dir
		}
	}

	assetCache := cache.New[assets.Asset](cache.Options{
		MaxEntries:    cfg.Cache.MaxEntries,
		TTL:           time.Duration(cfg.Cache.TTLHours) * time.Hour,
		Dir:           snapshotDir,
		SweepInterval: time.Duration(cfg.Cache.SweepIntervalMinutes) * time.Minute,
		FlushInterval: time.Duration(cfg.Cache.FlushIntervalMinutes) * time.Minute,
	}, logger)

	client := assets.NewClient(
		cfg.API.BaseURL,
		cfg.API.Token,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
	)

	var audit assets.AuditLog
	database, err := db.InitDB(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("audit database unavailable, lookups will not be recorded")
		database = nil
	} else {
		audit = db.NewAuditStore(database)
	}

	return &CLI{
		Config:  cfg,
		Logger:  logger,
		Cache:   assetCache,
		Service: assets.NewService(assetCache, client, audit),
		DB:      database,
	}, nil
}

// Context returns a base context carrying the CLI logger.
func (c *CLI) Context() context.Context {
	return logging.WithContext(context.Background(), c.Logger)
}

// Close flushes the cache snapshot, stops the maintenance loops, and closes
// the database connection.
func (c *CLI) Close() error {
	c.Cache.Flush()
	c.Cache.Close()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// NewRootCmd creates the root command for assetbridge
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "assetbridge",
		Short: "Cached bridge to a remote asset-tracking API",
		Long: `assetbridge answers asset-tag lookups from a local persistent cache,
falling back to the remote asset-tracking API only on a miss. Repeated
lookups within the cache TTL never touch the network.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewLookupCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewAuditCmd())
	rootCmd.AddCommand(NewPurgeCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, buildDate))

	return rootCmd
}

func newVersionCmd(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("assetbridge %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}

// Execute runs the root command and exits non-zero on error.
func Execute(version, commit, buildDate string) {
	if err := NewRootCmd(version, commit, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
