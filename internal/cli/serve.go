package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ownergraph/internal/server"
	"github.com/matzehuels/ownergraph/pkg/layout"
	"github.com/matzehuels/ownergraph/pkg/metrics"
	"github.com/matzehuels/ownergraph/pkg/observability"
	"github.com/matzehuels/ownergraph/pkg/session"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	registryOpts
	addr      string
	direction string
	noMetrics bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the investigation HTTP API",
		Long: `Serve exposes investigations over HTTP: root search, expansion, hover and
selection, layout direction and annotations. Prometheus metrics are served
on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	opts.registryOpts.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "initial layout direction: TB or LR")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not collect or serve Prometheus metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	dir, err := c.direction(opts.direction)
	if err != nil {
		return err
	}
	addr := opts.addr
	if addr == "" {
		addr = c.cfg.Server.Addr
	}

	client, backend, err := c.newClient(ctx, opts.registryOpts)
	if err != nil {
		return err
	}
	defer backend.Close()

	var reg *metrics.Registry
	if !opts.noMetrics {
		reg = metrics.NewRegistry()
		observability.SetGraphHooks(reg)
		observability.SetCacheHooks(reg)
		observability.SetHTTPHooks(reg)
		defer observability.Reset()
	}

	srv := server.New(server.Options{
		Engine:         c.newEngine(ctx, client),
		Searcher:       client,
		Layouter:       layout.NewEngine(),
		Store:          session.NewMemoryStore(c.cfg.Server.SessionTTL.Duration, c.cfg.Server.MaxSessions),
		Metrics:        reg,
		Logger:         logger,
		Direction:      dir,
		RequestTimeout: c.cfg.Server.RequestTimeout.Duration,
	})

	printSuccess("Serving on %s", StyleHighlight.Render(addr))
	printDetail("registry: %s", client.BaseURL())
	return srv.ListenAndServe(ctx, addr)
}
