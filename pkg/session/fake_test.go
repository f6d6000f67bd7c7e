package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/matzehuels/ownergraph/pkg/expand"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/layout"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// fakeEngine seeds a company with one officer; each expansion adds one
// child company under the frontier node. With gated set, Expand blocks
// until a value arrives on gate.
type fakeEngine struct {
	mu      sync.Mutex
	seedErr error
	pscs    []registry.PSC
	gated   bool
	gate    chan struct{}
	started chan string
	n       int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		gate:    make(chan struct{}),
		started: make(chan string, 8),
	}
}

func (f *fakeEngine) Seed(_ context.Context, number string) (*graph.Graph, error) {
	if f.seedErr != nil {
		return nil, f.seedErr
	}
	profile := &registry.CompanyProfile{
		CompanyNumber:    number,
		CompanyName:      "COMPANY " + number,
		RegisteredOffice: &registry.Address{AddressLine1: "1 High Street", Locality: "London"},
	}
	officers := []registry.Officer{{Name: "SMITH, Jane", OfficerRole: "director", OfficerID: "jane"}}
	return graph.Assemble(profile, officers, f.pscs), nil
}

func (f *fakeEngine) Expand(ctx context.Context, g *graph.Graph, frontier []string, levels int) (*expand.Result, error) {
	if f.gated {
		f.started <- frontier[0]
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.n++
	id := fmt.Sprintf("%08d", 90000000+f.n)
	f.mu.Unlock()

	next := g.Clone()
	next.AddNode(graph.NormalizeCompany(&registry.CompanyProfile{CompanyNumber: id, CompanyName: "CHILD " + id}))
	next.AddEdge(graph.NewEdge(frontier[0], id, graph.RelOfficerRole, "director"))
	return &expand.Result{Graph: next, Levels: 1, Created: 1, Touched: 1}, nil
}

// stubLayouter places nodes on a diagonal and records each call.
type stubLayouter struct {
	mu   sync.Mutex
	dirs []layout.Direction
	err  error
}

func (l *stubLayouter) Apply(_ context.Context, g *graph.Graph, dir layout.Direction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.dirs = append(l.dirs, dir)
	g.ClearPositions()
	for i, n := range g.Nodes() {
		n.Position = &graph.Point{X: float64(i) * 10, Y: float64(i) * 20}
	}
	return nil
}

func (l *stubLayouter) calls() []layout.Direction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]layout.Direction(nil), l.dirs...)
}
