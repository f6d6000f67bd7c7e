package cli

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/session"
)

// investigateOpts holds the flags of the investigate command.
type investigateOpts struct {
	registryOpts
	expand    []string // node[=depth] steps, applied in order
	direction string   // TB or LR (default: config)
	active    string   // node whose connections stay emphasized in drawings
	output    string   // output path or base path; "-" for stdout
	formats   string   // comma-separated output formats
	detailed  bool     // role, status and subtext lines in drawn labels
}

func (o *investigateOpts) register(cmd *cobra.Command) {
	o.registryOpts.register(cmd)
	cmd.Flags().StringArrayVarP(&o.expand, "expand", "e", nil, "expand a node after seeding, as node[=depth] (repeatable)")
	cmd.Flags().StringVarP(&o.direction, "direction", "d", "", "layout direction: TB or LR")
	cmd.Flags().StringVar(&o.active, "highlight", "", "emphasize the connections of this node in drawings")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file or base path (\"-\" for stdout)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): json (default), dot, svg, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "show roles, statuses and dates in drawings")
}

// expandStep is one --expand request.
type expandStep struct {
	node  string
	depth int
}

// investigateCommand creates the investigate command.
func (c *CLI) investigateCommand() *cobra.Command {
	var opts investigateOpts

	cmd := &cobra.Command{
		Use:   "investigate <company-number>",
		Short: "Seed a graph from a company and expand it",
		Long: `Investigate fetches a company with its officers and persons with significant
control, optionally expands nodes further, lays the graph out and writes it.

Examples:
  ownergraph investigate 00000006
  ownergraph investigate 6 -e officer-abc123=2 -f json,svg -o acme
  ownergraph investigate SC123456 -f dot -o - | dot -Tpng > graph.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInvestigate(cmd.Context(), args[0], &opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runInvestigate(ctx context.Context, number string, opts *investigateOpts) error {
	if err := ogerrors.ValidateCompanyNumber(number); err != nil {
		return err
	}
	dir, err := c.direction(opts.direction)
	if err != nil {
		return err
	}
	steps, err := parseExpandSteps(opts.expand, c.cfg.Depth)
	if err != nil {
		return err
	}
	formats, err := parseFormats(opts.formats, formatJSON)
	if err != nil {
		return err
	}

	client, backend, err := c.newClient(ctx, opts.registryOpts)
	if err != nil {
		return err
	}
	defer backend.Close()

	inv := c.newInvestigation(ctx, c.newEngine(ctx, client), dir)
	view, err := runSteps(ctx, inv, number, steps)
	if err != nil {
		return err
	}

	dotOpts, err := emphasisOpts(view.Graph, opts.active, dir, opts.detailed)
	if err != nil {
		return err
	}
	paths, err := writeOutputs(ctx, view.Graph, formats, opts.output, view.Root, dotOpts)
	if err != nil {
		return err
	}
	if opts.output != "-" {
		printSuccess("Investigated %s", StyleHighlight.Render(view.Root))
		printStats(view.Graph)
		for _, p := range paths {
			printFile(p)
		}
		if slices.Contains(formats, formatJSON) && len(paths) > 0 {
			printNextStep("Render it", "ownergraph render "+paths[0]+" -f svg")
		}
	}
	return nil
}

// runSteps seeds inv from number and applies each expansion in order.
func runSteps(ctx context.Context, inv *session.Investigation, number string, steps []expandStep) (*session.View, error) {
	logger := loggerFromContext(ctx)

	prog := newProgress(logger)
	spin := newSpinner(ctx, "Fetching company "+number).Start()
	view, err := inv.Search(ctx, number)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	prog.done("Seeded " + view.Root)

	for _, step := range steps {
		prog = newProgress(logger)
		spin = newSpinner(ctx, "Expanding "+step.node).Start()
		next, res, err := inv.Expand(ctx, step.node, step.depth)
		spin.Stop()
		if err != nil {
			return nil, err
		}
		view = next
		prog.done("Expanded " + step.node + " by " + strconv.Itoa(res.Levels) + " level(s), " +
			strconv.Itoa(res.Created) + " new nodes")
		if res.Failed > 0 {
			logger.Warn("some registry lookups failed", "node", step.node, "failed", res.Failed)
		}
		if res.Truncated {
			logger.Warn("node limit reached; expansion stopped early", "nodes", view.Graph.NodeCount())
		}
	}
	return view, nil
}

// parseExpandSteps parses --expand values of the form node or node=depth.
func parseExpandSteps(values []string, defaultDepth int) ([]expandStep, error) {
	steps := make([]expandStep, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		step := expandStep{node: v, depth: defaultDepth}
		if i := strings.LastIndex(v, "="); i >= 0 {
			depth, err := strconv.Atoi(v[i+1:])
			if err != nil {
				return nil, ogerrors.New(ogerrors.ErrCodeInvalidDepth, "invalid depth in --expand %q", v)
			}
			step.node, step.depth = v[:i], depth
		}
		if step.node == "" {
			return nil, ogerrors.New(ogerrors.ErrCodeInvalidNode, "empty node in --expand %q", v)
		}
		if err := ogerrors.ValidateDepth(step.depth); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
