// Package cli implements the xbar command-line interface.
//
// The CLI is built with cobra. Every command shares one [CLI] value carrying
// the logger and the effective configuration, which is read from a TOML file
// before any command runs (see config.go).
//
// # Commands
//
//   - topology: rows, blocks and columns of a crossbar, with the block table
//   - plan: the full wiring plan as JSON or JSONL
//   - verify: generate plans and check every wiring property
//   - serve: the HTTP API
//   - config: show the configuration file location and effective values
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers log-backed observability hooks. Loggers travel through the
// command context (withLogger / loggerFromContext).
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/xbar/pkg/buildinfo"
	"github.com/matzehuels/xbar/pkg/cache"
	"github.com/matzehuels/xbar/pkg/observability"
	"github.com/matzehuels/xbar/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "xbar"

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

	configPath string // --config, empty means the default location
	verbose    bool
	config     Config
}

// New creates a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "xbar generates wiring plans for one-sided binary tree crossbars",
		Long: `xbar generates locality-preserving wiring plans for crossbar switches that
connect every pair of n terminals. Rows are grouped into the blocks of a
one-sided binary tree and wires are packed into floor(n/2) columns so that no
wire leaves two adjacent blocks.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/xbar/config.toml)")

	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg

	level := LogInfo
	if c.verbose || cfg.Verbose {
		level = LogDebug
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Plans are cached only
// when a Redis server is configured, since a CLI process is too short-lived
// to benefit from an in-memory cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), c.keyer(), c.Logger)
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.config.Redis.Addr == "" {
		return cache.NewNullCache()
	}
	rc, err := cache.NewRedisCache(ctx, c.config.Redis.cacheConfig())
	if err != nil {
		c.Logger.Warn("redis unavailable, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	return rc
}

func (c *CLI) keyer() cache.Keyer {
	if c.config.Redis.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.config.Redis.Prefix)
}
