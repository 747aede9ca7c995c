// Package cli implements the netgen command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/RemieJanssen/NetworkGenerators/pkg/buildinfo"
	"github.com/RemieJanssen/NetworkGenerators/pkg/cache"
	"github.com/RemieJanssen/NetworkGenerators/pkg/pipeline"
	"github.com/RemieJanssen/NetworkGenerators/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "netgen"

	// envRedisAddr selects the Redis cache backend when set.
	envRedisAddr = "NETGEN_REDIS_ADDR"

	// envMongoURI is the fallback for --mongo-uri.
	envMongoURI = "NETGEN_MONGO_URI"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "netgen",
		Short:        "netgen simulates random phylogenetic networks",
		Long:         `netgen generates random phylogenetic networks: a rooted binary tree grown under the beta-splitting model (Aldous 1996), augmented with reticulation edges into a DAG, for use as test and benchmark topologies.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, st store.Store) (*pipeline.Runner, error) {
	cch, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, st, c.Logger), nil
}

// newCache picks the cache backend: Redis when NETGEN_REDIS_ADDR is set,
// otherwise a file cache under the XDG cache directory.
func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		return cache.NewRedisCache(ctx, addr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore connects to the run archive when requested.
// uri falls back to NETGEN_MONGO_URI, then to a local MongoDB.
func newStore(ctx context.Context, uri string) (store.Store, error) {
	if uri == "" {
		uri = os.Getenv(envMongoURI)
	}
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	return store.NewMongoStore(ctx, uri)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/netgen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
