package cli

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/graph"
)

// highlightResult is the --json output of the highlight command.
type highlightResult struct {
	Active string   `json:"active"`
	Nodes  []string `json:"nodes"`
	Edges  []string `json:"edges"`
}

// highlightCommand creates the highlight command.
func (c *CLI) highlightCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "highlight <graph.json> <node-id>",
		Short: "Show the connections emphasized for a node",
		Long: `Highlight loads a saved graph and prints the nodes and edges that stay
emphasized when the given node is hovered or selected. Connections are
followed through people and addresses but stop at companies other than
the active one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			res, err := highlight(g, args[1])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printHighlight(g, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the emphasized identities as JSON")
	return cmd
}

func highlight(g *graph.Graph, active string) (highlightResult, error) {
	if !g.HasNode(active) {
		return highlightResult{}, ogerrors.New(ogerrors.ErrCodeNodeNotFound, "node %s not in graph", active)
	}
	em := graph.Highlight(g, active)
	res := highlightResult{
		Active: active,
		Nodes:  em.EmphasizedNodes(g),
		Edges:  em.EmphasizedEdges(g),
	}
	if res.Nodes == nil {
		res.Nodes = []string{}
	}
	if res.Edges == nil {
		res.Edges = []string{}
	}
	return res, nil
}

func printHighlight(g *graph.Graph, res highlightResult) {
	n, _ := g.Node(res.Active)
	printInfo("Connections of %s", StyleHighlight.Render(graph.Display(n.Label)))
	printKeyValue("Nodes", formatCount(len(res.Nodes), g.NodeCount()))
	printKeyValue("Edges", formatCount(len(res.Edges), g.EdgeCount()))
	for _, id := range res.Nodes {
		node, _ := g.Node(id)
		printNode(node, id == res.Active)
	}
	for _, id := range res.Edges {
		e, _ := g.Edge(id)
		printEdge(e)
	}
}

func formatCount(n, total int) string {
	return StyleHighlight.Render(strconv.Itoa(n)) + StyleDim.Render(" of "+strconv.Itoa(total))
}
