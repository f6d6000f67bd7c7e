package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/expand"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/layout"
)

// Engine seeds and expands graphs. *expand.Engine implements it.
type Engine interface {
	Seed(ctx context.Context, number string) (*graph.Graph, error)
	Expand(ctx context.Context, g *graph.Graph, frontier []string, levels int) (*expand.Result, error)
}

// Options configures an [Investigation].
type Options struct {
	Layouter  layout.Layouter  // Positions nodes after every structural change (nil: no layout)
	Direction layout.Direction // Initial layout direction (default: TB)
	Logger    *log.Logger      // Default: discard
}

// Investigation is the coordinator for one interactive session.
// All methods are safe for concurrent use.
type Investigation struct {
	ID        string
	CreatedAt time.Time

	engine   Engine
	layouter layout.Layouter
	logger   *log.Logger

	mu         sync.Mutex
	g          *graph.Graph
	root       string
	epoch      uint64
	generation uint64
	structural uint64 // generation of the last seed or expansion merge
	direction  layout.Direction
	hover      string
	selection  string
	accessed   time.Time
}

// View is a consistent snapshot of an investigation. Graph must be treated
// as read-only.
type View struct {
	ID         string           `json:"id"`
	Root       string           `json:"root,omitempty"`
	Epoch      uint64           `json:"epoch"`
	Generation uint64           `json:"generation"`
	Direction  layout.Direction `json:"direction"`
	Hover      string           `json:"hover,omitempty"`
	Selection  string           `json:"selection,omitempty"`
	Graph      *graph.Graph     `json:"graph"`
	Emphasis   graph.Emphasis   `json:"emphasis"`
}

// New creates an empty investigation with a fresh uuid.
func New(engine Engine, opts Options) *Investigation {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Direction == "" {
		opts.Direction = layout.TopBottom
	}
	id := uuid.NewString()
	now := time.Now()
	return &Investigation{
		ID:        id,
		CreatedAt: now,
		engine:    engine,
		layouter:  opts.Layouter,
		logger:    opts.Logger.With("investigation", id),
		g:         graph.New(),
		direction: opts.Direction,
		accessed:  now,
	}
}

// Search seeds a new graph from a root company number, replacing the
// current one. Expansions still running against the previous graph will be
// rejected when they try to merge.
func (inv *Investigation) Search(ctx context.Context, number string) (*View, error) {
	if err := ogerrors.ValidateCompanyNumber(number); err != nil {
		return nil, err
	}
	number = ogerrors.NormalizeCompanyNumber(number)

	inv.mu.Lock()
	inv.epoch++
	epoch := inv.epoch
	dir := inv.direction
	inv.mu.Unlock()

	g, err := inv.engine.Seed(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := inv.layout(ctx, g, dir); err != nil {
		return nil, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.epoch != epoch {
		return nil, ogerrors.New(ogerrors.ErrCodeStaleGeneration, "search for %s superseded by a newer search", number)
	}
	if inv.direction != dir {
		if err := inv.layout(ctx, g, inv.direction); err != nil {
			return nil, err
		}
	}
	inv.root = number
	inv.hover, inv.selection = "", ""
	inv.publish(g, true)
	inv.logger.Info("root search", "company", number, "nodes", g.NodeCount(), "generation", inv.generation)
	return inv.viewLocked(), nil
}

// Expand grows the graph from nodeID by depth levels (1 to 3).
//
// The fetch runs against the graph current at call time. If a root search
// or another expansion publishes first, the result is discarded and a
// STALE_GENERATION error is returned.
func (inv *Investigation) Expand(ctx context.Context, nodeID string, depth int) (*View, *expand.Result, error) {
	if err := ogerrors.ValidateDepth(depth); err != nil {
		return nil, nil, err
	}

	inv.mu.Lock()
	g, epoch, structural, dir := inv.g, inv.epoch, inv.structural, inv.direction
	inv.mu.Unlock()

	if g.NodeCount() == 0 {
		return nil, nil, ogerrors.New(ogerrors.ErrCodeNoGraph, "no investigation in progress; search for a company first")
	}
	n, ok := g.Node(nodeID)
	if !ok {
		return nil, nil, ogerrors.New(ogerrors.ErrCodeNodeNotFound, "node %s not in graph", nodeID)
	}
	if !n.Expandable() {
		return nil, nil, ogerrors.New(ogerrors.ErrCodeNotExpandable, "%s node %s cannot be expanded", n.Kind, nodeID)
	}

	res, err := inv.engine.Expand(ctx, g, []string{nodeID}, depth)
	if err != nil {
		return nil, nil, err
	}
	next := res.Graph
	if err := inv.layout(ctx, next, dir); err != nil {
		return nil, nil, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.epoch != epoch || inv.structural != structural {
		inv.logger.Warn("discarding stale expansion", "node", nodeID,
			"epoch", epoch, "current_epoch", inv.epoch)
		return nil, nil, ogerrors.New(ogerrors.ErrCodeStaleGeneration,
			"graph changed while expanding %s", nodeID)
	}

	carryAnnotations(inv.g, next)
	if inv.direction != dir {
		if err := inv.layout(ctx, next, inv.direction); err != nil {
			return nil, nil, err
		}
	}

	inv.publish(next, true)
	inv.logger.Info("expanded", "node", nodeID, "depth", depth, "created", res.Created,
		"failed", res.Failed, "generation", inv.generation)
	return inv.viewLocked(), res, nil
}

// SetHover sets or clears ("") the hovered node.
func (inv *Investigation) SetHover(nodeID string) (*View, error) {
	return inv.setActive(nodeID, &inv.hover)
}

// SetSelection sets or clears ("") the selected node.
func (inv *Investigation) SetSelection(nodeID string) (*View, error) {
	return inv.setActive(nodeID, &inv.selection)
}

func (inv *Investigation) setActive(nodeID string, dst *string) (*View, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if nodeID != "" && !inv.g.HasNode(nodeID) {
		return nil, ogerrors.New(ogerrors.ErrCodeNodeNotFound, "node %s not in graph", nodeID)
	}
	*dst = nodeID
	inv.accessed = time.Now()
	return inv.viewLocked(), nil
}

// ActiveNode returns the hovered node when set, else the selected one.
func (inv *Investigation) ActiveNode() string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.activeLocked()
}

func (inv *Investigation) activeLocked() string {
	if inv.hover != "" {
		return inv.hover
	}
	return inv.selection
}

// SetDirection re-lays out the graph in the given direction.
func (inv *Investigation) SetDirection(ctx context.Context, dir layout.Direction) (*View, error) {
	if _, err := layout.ParseDirection(string(dir)); err != nil {
		return nil, err
	}

	inv.mu.Lock()
	g, structural := inv.g, inv.structural
	inv.mu.Unlock()

	next := g.Clone()
	if err := inv.layout(ctx, next, dir); err != nil {
		return nil, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if inv.structural != structural {
		return nil, ogerrors.New(ogerrors.ErrCodeStaleGeneration, "graph changed during re-layout")
	}
	carryAnnotations(inv.g, next)
	inv.direction = dir
	inv.publish(next, false)
	return inv.viewLocked(), nil
}

// Annotate saves a user color and notes on a node. No other attribute
// changes, and the annotation survives later expansions and re-layouts.
func (inv *Investigation) Annotate(nodeID, color, notes string) (*View, error) {
	color = strings.TrimSpace(color)
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if !inv.g.HasNode(nodeID) {
		return nil, ogerrors.New(ogerrors.ErrCodeNodeNotFound, "node %s not in graph", nodeID)
	}
	next := inv.g.Clone()
	if err := next.Annotate(nodeID, color, notes); err != nil {
		return nil, ogerrors.Wrap(ogerrors.ErrCodeNodeNotFound, err, "annotate %s", nodeID)
	}
	inv.publish(next, false)
	return inv.viewLocked(), nil
}

// View returns a snapshot including the current emphasis.
func (inv *Investigation) View() *View {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.accessed = time.Now()
	return inv.viewLocked()
}

// Graph returns the current published graph. Treat it as read-only.
func (inv *Investigation) Graph() *graph.Graph {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.g
}

// Generation returns the current graph version.
func (inv *Investigation) Generation() uint64 {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.generation
}

// LastAccess reports when the investigation was last read or changed.
func (inv *Investigation) LastAccess() time.Time {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.accessed
}

func (inv *Investigation) viewLocked() *View {
	return &View{
		ID:         inv.ID,
		Root:       inv.root,
		Epoch:      inv.epoch,
		Generation: inv.generation,
		Direction:  inv.direction,
		Hover:      inv.hover,
		Selection:  inv.selection,
		Graph:      inv.g,
		Emphasis:   graph.Highlight(inv.g, inv.activeLocked()),
	}
}

// publish installs g as the current graph. Callers hold mu.
func (inv *Investigation) publish(g *graph.Graph, structural bool) {
	inv.g = g
	inv.generation++
	if structural {
		inv.structural = inv.generation
		if inv.hover != "" && !g.HasNode(inv.hover) {
			inv.hover = ""
		}
		if inv.selection != "" && !g.HasNode(inv.selection) {
			inv.selection = ""
		}
	}
	inv.accessed = time.Now()
}

// carryAnnotations copies the annotations of every node in from onto the
// same node in to. to must contain every node of from.
func carryAnnotations(from, to *graph.Graph) {
	for _, n := range from.Nodes() {
		_ = to.Annotate(n.ID, n.CustomColor, n.Notes)
	}
}

func (inv *Investigation) layout(ctx context.Context, g *graph.Graph, dir layout.Direction) error {
	if inv.layouter == nil {
		return nil
	}
	return inv.layouter.Apply(ctx, g, dir)
}
