package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// searchOpts holds the flags of the search command.
type searchOpts struct {
	investigateOpts
	pick  bool
	limit int
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{limit: 20}

	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Find companies by name",
		Long: `Search runs a company name search against the register. With --pick, an
interactive list lets you choose a result and investigates it; the
investigate flags then apply.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), strings.Join(args, " "), &opts)
		},
	}
	opts.investigateOpts.register(cmd)
	cmd.Flags().BoolVarP(&opts.pick, "pick", "p", false, "choose a result interactively and investigate it")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "maximum results to list (0 for all)")
	return cmd
}

func (c *CLI) runSearch(ctx context.Context, query string, opts *searchOpts) error {
	if err := ogerrors.ValidateQuery(query); err != nil {
		return err
	}

	client, backend, err := c.newClient(ctx, opts.registryOpts)
	if err != nil {
		return err
	}
	defer backend.Close()

	spin := newSpinner(ctx, "Searching for "+query).Start()
	hits, err := client.SearchCompaniesByName(ctx, query)
	spin.Stop()
	if err != nil {
		return ogerrors.Wrap(ogerrors.ErrCodeNetwork, err, "search %q", query)
	}
	if len(hits) == 0 {
		printInfo("No companies match %q", query)
		return nil
	}

	if !opts.pick {
		printSearchHits(hits, opts.limit)
		printNextStep("Investigate one", "ownergraph investigate "+hits[0].CompanyNumber)
		return nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return ogerrors.New(ogerrors.ErrCodeInvalidInput, "--pick needs an interactive terminal")
	}
	hit, err := pickCompany(hits)
	if err != nil {
		return err
	}
	if hit == nil {
		printInfo("No company selected")
		return nil
	}
	printInfo("Investigating %s %s", StyleHighlight.Render(hit.CompanyNumber), hit.Title)
	return c.runInvestigate(ctx, hit.CompanyNumber, &opts.investigateOpts)
}

// pickCompany runs the interactive picker. A nil hit means the user quit.
func pickCompany(hits []registry.SearchHit) (*registry.SearchHit, error) {
	final, err := tea.NewProgram(NewCompanyListModel(hits), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("company picker: %w", err)
	}
	return final.(CompanyListModel).Selected, nil
}

// printSearchHits lists up to limit hits (all when limit is 0).
func printSearchHits(hits []registry.SearchHit, limit int) {
	shown := hits
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	printSuccess("Found %d companies", len(hits))
	for _, h := range shown {
		fmt.Printf("  %s  %s %s\n", StyleHighlight.Render(h.CompanyNumber), StyleValue.Render(h.Title),
			StyleDim.Render("("+graph.Display(h.CompanyStatus)+")"))
		if h.AddressSnippet != "" {
			printDetail("    %s", h.AddressSnippet)
		}
	}
	if len(shown) < len(hits) {
		printDetail("… %d more (use --limit 0 to list all)", len(hits)-len(shown))
	}
}
