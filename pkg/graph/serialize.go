package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ownergraph/pkg/registry"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
// Nodes and edges keep insertion order.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraphFile reads a graph from a JSON file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes a JSON graph. Duplicate node identities and edges with
// missing endpoints are errors.
func ReadGraph(r io.Reader) (*Graph, error) {
	g := New()
	if err := json.NewDecoder(r).Decode(g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// =============================================================================
// Wire Format
// =============================================================================

type wireGraph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// MarshalJSON encodes the graph as {"nodes": [...], "edges": [...]}.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireGraph{Nodes: g.Nodes(), Edges: g.Edges()})
}

// UnmarshalJSON replaces the graph's contents with the decoded graph.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var w wireGraph
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := New()
	for _, n := range w.Nodes {
		if n == nil {
			continue
		}
		if !n.Kind.Valid() {
			return fmt.Errorf("node %q: unknown kind %q", n.ID, n.Kind)
		}
		if !out.AddNode(*n) {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
	}
	for _, e := range w.Edges {
		if e == nil {
			continue
		}
		if !out.HasNode(e.Source) || !out.HasNode(e.Target) {
			return fmt.Errorf("%w: %s", ErrDanglingEdge, e.ID)
		}
		if e.Style == "" {
			e.Style = StyleFor(e.Relation)
		}
		out.AddEdge(*e)
	}
	*g = *out
	return nil
}

// recordEnvelope tags a record with its kind so it decodes into the right
// concrete type.
type recordEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type nodeAlias Node

type wireNode struct {
	nodeAlias
	Record *recordEnvelope `json:"record,omitempty"`
}

// MarshalJSON encodes the node with its record wrapped in a kind envelope.
func (n Node) MarshalJSON() ([]byte, error) {
	w := wireNode{nodeAlias: nodeAlias(n)}
	if n.Record != nil {
		data, err := json.Marshal(n.Record)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", n.ID, err)
		}
		w.Record = &recordEnvelope{Kind: n.Record.RecordKind(), Data: data}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a node and its enveloped record.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node(w.nodeAlias)
	if w.Record == nil {
		return nil
	}
	rec, err := decodeRecord(w.Record)
	if err != nil {
		return fmt.Errorf("node %s: %w", n.ID, err)
	}
	n.Record = rec
	return nil
}

func decodeRecord(env *recordEnvelope) (registry.Record, error) {
	var rec registry.Record
	switch env.Kind {
	case registry.KindCompany:
		rec = &registry.CompanyProfile{}
	case registry.KindOfficer:
		rec = &registry.Officer{}
	case registry.KindPSC:
		rec = &registry.PSC{}
	case registry.KindAddress:
		rec = &registry.Address{}
	default:
		return nil, fmt.Errorf("unknown record kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Data, rec); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", env.Kind, err)
	}
	return rec, nil
}
