package graph

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrDuplicateNode is returned when decoding a graph that lists the same
	// node identity twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDanglingEdge is returned when decoding a graph with an edge whose
	// endpoint is not a node in the graph.
	ErrDanglingEdge = errors.New("edge endpoint not in graph")

	// ErrUnknownNode is returned by operations addressing a node identity
	// that is not in the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Graph is the node and edge set of one investigation.
//
// The zero value is not usable; create graphs with [New]. A Graph is not
// safe for concurrent mutation. Callers that share a graph between
// goroutines publish it as an immutable value and mutate a [Graph.Clone].
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string

	// addresses maps a formatted address to the first address node that
	// carries it.
	addresses map[string]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[string]*Edge),
		addresses: make(map[string]string),
	}
}

// AddNode inserts n unless a node with the same identity exists. It
// reports whether n was inserted; an existing node is never overwritten.
func (g *Graph) AddNode(n Node) bool {
	if n.ID == "" {
		return false
	}
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	node := n
	g.nodes[n.ID] = &node
	g.nodeOrder = append(g.nodeOrder, n.ID)
	if n.Kind == KindAddress && n.Address != "" {
		if _, ok := g.addresses[n.Address]; !ok {
			g.addresses[n.Address] = n.ID
		}
	}
	return true
}

// AddEdge inserts e if its identity is new and both endpoints exist. It
// reports whether e was inserted. The first edge for an identity is
// authoritative.
func (g *Graph) AddEdge(e Edge) bool {
	if _, ok := g.edges[e.ID]; ok {
		return false
	}
	if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
		return false
	}
	edge := e
	g.edges[e.ID] = &edge
	g.edgeOrder = append(g.edgeOrder, e.ID)
	return true
}

// Node returns the node with the given identity.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given identity.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// HasNode reports whether a node with the given identity exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge with the given identity exists.
func (g *Graph) HasEdge(id string) bool {
	_, ok := g.edges[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = g.edges[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// CountByKind returns the number of nodes of each kind.
func (g *Graph) CountByKind() map[Kind]int {
	out := make(map[Kind]int, 4)
	for _, n := range g.nodes {
		out[n.Kind]++
	}
	return out
}

// AddressNode returns the address node whose formatted address equals
// formatted, if any.
func (g *Graph) AddressNode(formatted string) (*Node, bool) {
	id, ok := g.addresses[formatted]
	if !ok {
		return nil, false
	}
	return g.nodes[id], true
}

// NextAddressID returns the first unused address identity for formatted,
// trying suffixes seq, seq+1, ... in turn.
func (g *Graph) NextAddressID(formatted string, seq int) string {
	for {
		id := AddressID(formatted, seq)
		if !g.HasNode(id) {
			return id
		}
		seq++
	}
}

// Annotate sets the user annotations of a node. No other field changes.
func (g *Graph) Annotate(id, color, notes string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.CustomColor = color
	n.Notes = notes
	return nil
}

// ClearPositions removes every layout position.
func (g *Graph) ClearPositions() {
	for _, n := range g.nodes {
		n.Position = nil
	}
}

// Clone returns a deep copy of the graph. Records are shared since they are
// never mutated after normalization.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:     make(map[string]*Node, len(g.nodes)),
		edges:     make(map[string]*Edge, len(g.edges)),
		nodeOrder: append([]string(nil), g.nodeOrder...),
		edgeOrder: append([]string(nil), g.edgeOrder...),
		addresses: make(map[string]string, len(g.addresses)),
	}
	for id, n := range g.nodes {
		node := *n
		if n.Position != nil {
			p := *n.Position
			node.Position = &p
		}
		c.nodes[id] = &node
	}
	for id, e := range g.edges {
		edge := *e
		c.edges[id] = &edge
	}
	for k, v := range g.addresses {
		c.addresses[k] = v
	}
	return c
}

// Validate checks the structural invariants: unique identities, consistent
// order slices and edges whose endpoints exist.
func (g *Graph) Validate() error {
	if len(g.nodeOrder) != len(g.nodes) {
		return fmt.Errorf("%w: order has %d entries for %d nodes", ErrDuplicateNode, len(g.nodeOrder), len(g.nodes))
	}
	for _, e := range g.edges {
		if !g.HasNode(e.Source) {
			return fmt.Errorf("%w: %s source %s", ErrDanglingEdge, e.ID, e.Source)
		}
		if !g.HasNode(e.Target) {
			return fmt.Errorf("%w: %s target %s", ErrDanglingEdge, e.ID, e.Target)
		}
	}
	return nil
}

// String summarizes the graph size, e.g. "graph(4 nodes, 3 edges)".
func (g *Graph) String() string {
	return "graph(" + strconv.Itoa(len(g.nodes)) + " nodes, " + strconv.Itoa(len(g.edges)) + " edges)"
}
