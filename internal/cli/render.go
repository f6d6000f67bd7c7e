package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/layout"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output    string // output file or base path; "-" for stdout
	formats   string // comma-separated output formats
	direction string // TB or LR (default: config)
	active    string // node whose connections stay emphasized
	detailed  bool   // role, status and subtext lines in labels
	relayout  bool   // recompute node positions before writing JSON
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Draw a saved graph as DOT, SVG, PDF or PNG",
		Long: `Render draws a graph written by "ownergraph investigate -f json". PDF and
PNG output need rsvg-convert on the PATH.

Examples:
  ownergraph render acme.json
  ownergraph render acme.json -f svg,png --highlight officer-abc123 -d LR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base path (\"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "layout direction: TB or LR")
	cmd.Flags().StringVar(&opts.active, "highlight", "", "emphasize the connections of this node")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show roles, statuses and dates")
	cmd.Flags().BoolVar(&opts.relayout, "relayout", false, "recompute node positions (json output without -o rewrites the input)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	dir, err := c.direction(opts.direction)
	if err != nil {
		return err
	}
	formats, err := parseFormats(opts.formats, formatSVG)
	if err != nil {
		return err
	}

	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	if opts.relayout {
		prog := newProgress(logger)
		if err := layout.NewEngine().Apply(ctx, g, dir); err != nil {
			return err
		}
		prog.done("Laid out " + string(dir))
	}

	dotOpts, err := emphasisOpts(g, opts.active, dir, opts.detailed)
	if err != nil {
		return err
	}
	paths, err := writeOutputs(ctx, g, formats, opts.output, input, dotOpts)
	if err != nil {
		return err
	}
	if opts.output != "-" {
		printSuccess("Rendered %s", input)
		for _, p := range paths {
			printFile(p)
		}
	}
	return nil
}
