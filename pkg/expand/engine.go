package expand

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/observability"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// Engine seeds and expands investigation graphs using a registry fetcher.
// An Engine holds no graph state and is safe for concurrent use.
type Engine struct {
	fetcher registry.Fetcher
	opts    Options
}

// New creates an Engine that fetches through f.
func New(f registry.Fetcher, opts Options) *Engine {
	return &Engine{fetcher: f, opts: opts.WithDefaults()}
}

// Result describes a finished expansion.
type Result struct {
	Graph     *graph.Graph // The expanded graph; the input is never modified
	Levels    int          // Levels actually run
	Created   int          // Nodes created
	Touched   int          // Distinct neighbors reached, created or existing
	Failed    int          // Per-node fetches that failed and contributed nothing
	Truncated bool         // MaxNodes stopped node creation
}

// Seed fetches the root company and assembles its seed graph. Any fetch
// failure is fatal and returned as [ogerrors.ErrCodeSeedFetch].
func (e *Engine) Seed(ctx context.Context, number string) (g *graph.Graph, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if g != nil {
			n = g.NodeCount()
		}
		observability.Graph().OnSeed(ctx, number, n, time.Since(start), err)
	}()

	bundle, err := e.fetcher.FetchCompany(ctx, number)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ogerrors.Wrap(ogerrors.ErrCodeSeedFetch, err, "company %s not found", number)
		}
		return nil, ogerrors.Wrap(ogerrors.ErrCodeSeedFetch, err, "fetch company %s", number)
	}
	if bundle == nil || bundle.Company == nil || bundle.Company.CompanyNumber == "" {
		return nil, ogerrors.Wrap(ogerrors.ErrCodeSeedFetch, registry.ErrNotFound, "company %s not found", number)
	}

	g = graph.Assemble(bundle.Company, bundle.Officers, bundle.PSCs)
	e.opts.Logger.Info("seeded", "company", bundle.Company.CompanyNumber,
		"officers", len(bundle.Officers), "pscs", len(bundle.PSCs), "nodes", g.NodeCount())
	return g, nil
}

// Expand grows g from frontier for the given number of levels, clamped to
// [MinLevels, MaxLevels]. Every frontier identity must exist in g;
// non-expandable nodes in the frontier contribute nothing.
//
// On error g is untouched and no partial result is returned.
func (e *Engine) Expand(ctx context.Context, g *graph.Graph, frontier []string, levels int) (res *Result, err error) {
	for _, id := range frontier {
		if !g.HasNode(id) {
			return nil, ogerrors.New(ogerrors.ErrCodeNodeNotFound, "node %s not in graph", id)
		}
	}
	levels = ClampLevels(levels)

	start := time.Now()
	hooks := observability.Graph()
	hooks.OnExpandStart(ctx, len(frontier), levels)
	defer func() {
		created := 0
		if res != nil {
			created = res.Created
		}
		hooks.OnExpandComplete(ctx, levels, created, time.Since(start), err)
	}()

	m := newMerger(g.Clone(), e.opts.MaxNodes)
	res = &Result{}

	current := e.expandable(m.g, dedup(frontier), m.expanded)
	for level := 1; level <= levels && len(current) > 0; level++ {
		levelStart := time.Now()
		found, err := e.fetchLevel(ctx, m.g, current)
		if err != nil {
			return nil, err
		}

		m.beginLevel()
		for i, id := range current {
			m.expanded[id] = true
			d := found[i]
			if d.err != nil {
				res.Failed++
				e.opts.Logger.Warn("fetch failed", "node", id, "kind", d.kind, "err", d.err)
				hooks.OnFetchError(ctx, string(d.kind), id, d.err)
				continue
			}
			m.merge(id, d)
		}

		res.Levels = level
		hooks.OnLevelComplete(ctx, level, len(current), m.levelCreated, time.Since(levelStart))
		e.opts.Logger.Debug("level merged", "level", level, "frontier", len(current),
			"created", m.levelCreated, "touched", len(m.touched))

		current = e.expandable(m.g, m.touched, m.expanded)
	}

	res.Graph = m.g
	res.Created = m.created
	res.Touched = len(m.everTouched)
	res.Truncated = m.truncated
	e.opts.Logger.Info("expanded", "levels", res.Levels, "created", res.Created,
		"failed", res.Failed, "nodes", m.g.NodeCount(), "edges", m.g.EdgeCount())
	return res, nil
}

// discovery is the raw result of one node's fetch.
type discovery struct {
	kind         graph.Kind
	appointments []registry.Appointment
	officers     []registry.Officer
	companies    []registry.CompanyProfile
	err          error
}

// fetchLevel runs every frontier fetch concurrently. Each goroutine writes
// only its own slot; the graph is read-only for the duration. Per-node
// errors are recorded in the slot. Only cancellation of ctx fails the level.
func (e *Engine) fetchLevel(ctx context.Context, g *graph.Graph, frontier []string) ([]discovery, error) {
	found := make([]discovery, len(frontier))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.opts.Concurrency)
	for i, id := range frontier {
		n, _ := g.Node(id)
		kind, officerID, address := n.Kind, n.OfficerID, n.Address
		eg.Go(func() error {
			d := e.discover(gctx, kind, id, officerID, address)
			if d.err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			found[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

func (e *Engine) discover(ctx context.Context, kind graph.Kind, id, officerID, address string) discovery {
	d := discovery{kind: kind}
	switch kind {
	case graph.KindOfficer:
		d.appointments, d.err = e.fetcher.FetchOfficerAppointments(ctx, officerID)
	case graph.KindCompany:
		d.officers, d.err = e.fetcher.FetchCompanyOfficers(ctx, id)
	case graph.KindAddress:
		d.companies, d.err = e.fetcher.SearchCompaniesAtLocation(ctx, address)
	}
	return d
}

// expandable filters ids down to expandable nodes not yet expanded in
// this call.
func (e *Engine) expandable(g *graph.Graph, ids []string, expanded map[string]bool) []string {
	var out []string
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok || expanded[id] || !n.Expandable() {
			continue
		}
		out = append(out, id)
	}
	return out
}

func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
