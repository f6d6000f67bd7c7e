// Package cli implements the ownergraph command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ownergraph/pkg/buildinfo"
	"github.com/matzehuels/ownergraph/pkg/cache"
	"github.com/matzehuels/ownergraph/pkg/config"
	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/expand"
	"github.com/matzehuels/ownergraph/pkg/integrations/companieshouse"
	"github.com/matzehuels/ownergraph/pkg/layout"
	"github.com/matzehuels/ownergraph/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ownergraph"

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

	configPath string
	cfg        *config.Config
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:  newLogger(w, level),
		cfg:     config.Default(),
		verbose: level <= log.DebugLevel,
	}
}

// SetLogLevel updates the logger's level. A debug level also keeps the
// config file's log_level from raising it again.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.verbose = level <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ownergraph explores company ownership as a relationship graph",
		Long: `ownergraph seeds a graph from a company in the Companies House register and
grows it through officers, persons with significant control and shared
addresses, then lays it out for inspection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.investigateCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.highlightCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level unless
// --verbose already asked for debug output.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if !c.verbose {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	return nil
}

// =============================================================================
// Dependency Factories
// =============================================================================

// registryOpts are the flags shared by every command that talks to the
// registry.
type registryOpts struct {
	noCache bool
	refresh bool
}

func (o *registryOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached responses and fetch again")
}

// openCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.cfg.Cache
	backend, err := cache.Open(ctx, cache.Options{
		Backend:  cc.Backend,
		Dir:      cc.Dir,
		RedisURL: cc.RedisURL,
		MongoURI: cc.MongoURI,
		MongoDB:  cc.MongoDB,
	})
	if err != nil {
		if cc.Backend == cache.BackendFile {
			loggerFromContext(ctx).Warn("response cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, ogerrors.Wrap(ogerrors.ErrCodeInvalidConfig, err, "open %s cache", cc.Backend)
	}
	return backend, nil
}

// newClient creates a Companies House client. The caller closes the
// returned cache.
func (c *CLI) newClient(ctx context.Context, opts registryOpts) (*companieshouse.Client, cache.Cache, error) {
	if c.cfg.APIKey == "" {
		return nil, nil, ogerrors.New(ogerrors.ErrCodeUnauthorized,
			"no API key: set COMPANIES_HOUSE_API_KEY or api_key in %s", config.DefaultPath())
	}
	backend, err := c.openCache(ctx, opts.noCache)
	if err != nil {
		return nil, nil, err
	}
	client := companieshouse.NewClientWithBaseURL(c.cfg.BaseURL, c.cfg.APIKey, backend, c.cfg.Cache.TTL.Duration).
		WithRefresh(opts.refresh)
	return client, backend, nil
}

// newEngine creates the expansion engine over a fetcher.
func (c *CLI) newEngine(ctx context.Context, client *companieshouse.Client) *expand.Engine {
	return expand.New(client, expand.Options{
		Concurrency: c.cfg.Concurrency,
		MaxNodes:    c.cfg.MaxNodes,
		Logger:      loggerFromContext(ctx),
	})
}

// newInvestigation creates an investigation laid out with Graphviz.
func (c *CLI) newInvestigation(ctx context.Context, engine session.Engine, dir layout.Direction) *session.Investigation {
	return session.New(engine, session.Options{
		Layouter:  layout.NewEngine(),
		Direction: dir,
		Logger:    loggerFromContext(ctx),
	})
}

// direction resolves a --direction flag, falling back to the config value.
func (c *CLI) direction(flag string) (layout.Direction, error) {
	if strings.TrimSpace(flag) == "" {
		flag = c.cfg.Direction
	}
	return layout.ParseDirection(flag)
}
