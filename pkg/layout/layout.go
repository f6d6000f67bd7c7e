package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/observability"
)

// Direction is the rank direction of a layout.
type Direction string

// Layout directions.
const (
	TopBottom Direction = "TB"
	LeftRight Direction = "LR"
)

// ParseDirection accepts "TB" or "LR" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case TopBottom:
		return TopBottom, nil
	case LeftRight:
		return LeftRight, nil
	}
	return "", ogerrors.New(ogerrors.ErrCodeInvalidDirection, "invalid layout direction %q (want TB or LR)", s)
}

// Minimum rank spans per edge class.
const (
	MinLenShort = 1 // correspondence-address edges
	MinLenLong  = 2 // every other relation
)

// Node box size in points.
const (
	NodeWidth  = 220.0
	NodeHeight = 80.0
)

const pointsPerInch = 72.0

// Layouter positions every node of a graph in place.
type Layouter interface {
	Apply(ctx context.Context, g *graph.Graph, dir Direction) error
}

// Engine is the Graphviz-backed [Layouter].
type Engine struct {
	NodeWidth  float64 // Box width in points (default: NodeWidth)
	NodeHeight float64 // Box height in points (default: NodeHeight)
}

// NewEngine returns an Engine with the default box size.
func NewEngine() *Engine {
	return &Engine{NodeWidth: NodeWidth, NodeHeight: NodeHeight}
}

// MinLen returns the minimum rank span for an edge of the given relation.
func MinLen(rel graph.RelationKind) int {
	if rel == graph.RelCorrespondenceAddress {
		return MinLenShort
	}
	return MinLenLong
}

// Apply lays out g and sets every node's Position, discarding any previous
// one. Positions anchor the top-left corner of the node box with y growing
// downwards.
func (e *Engine) Apply(ctx context.Context, g *graph.Graph, dir Direction) (err error) {
	start := time.Now()
	defer func() {
		observability.Graph().OnLayout(ctx, g.NodeCount(), time.Since(start), err)
	}()

	g.ClearPositions()
	if g.NodeCount() == 0 {
		return nil
	}

	nodes := g.Nodes()
	dot := e.layoutDOT(g, dir)
	out, err := renderDOT(ctx, []byte(dot), graphviz.XDOT)
	if err != nil {
		return err
	}
	placed, err := parsePositions(out)
	if err != nil {
		return err
	}

	for i, n := range nodes {
		p, ok := placed.nodes[dotID(i)]
		if !ok {
			return fmt.Errorf("layout: node %s missing from graphviz output", n.ID)
		}
		n.Position = &graph.Point{
			X: p.cx - p.w/2,
			Y: (placed.top - p.cy) - p.h/2,
		}
	}
	return nil
}

// layoutDOT builds the unstyled DOT used for positioning. Nodes are named
// n0, n1, ... in graph order so the output can be matched without quoting
// concerns.
func (e *Engine) layoutDOT(g *graph.Graph, dir Direction) string {
	w, h := e.NodeWidth, e.NodeHeight
	if w <= 0 {
		w = NodeWidth
	}
	if h <= 0 {
		h = NodeHeight
	}
	if dir != LeftRight {
		dir = TopBottom
	}

	index := make(map[string]int, g.NodeCount())
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, label=\"\", width=%s, height=%s];\n",
		inches(w), inches(h))
	for i, n := range g.Nodes() {
		index[n.ID] = i
		fmt.Fprintf(&buf, "  %s;\n", dotID(i))
	}
	for _, ed := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s [minlen=%d];\n", dotID(index[ed.Source]), dotID(index[ed.Target]), MinLen(ed.Relation))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotID(i int) string { return "n" + strconv.Itoa(i) }

func inches(points float64) string {
	return strconv.FormatFloat(points/pointsPerInch, 'f', 4, 64)
}

// renderDOT runs Graphviz over a DOT document.
func renderDOT(ctx context.Context, dot []byte, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type placement struct {
	cx, cy, w, h float64
}

type placements struct {
	top   float64
	nodes map[string]placement
}

var (
	continuationRe = regexp.MustCompile(`\\\r?\n`)
	nodeStmtRe     = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	bbRe           = regexp.MustCompile(`\bbb="([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+)"`)
	posRe          = regexp.MustCompile(`\bpos="([-0-9.e+]+),([-0-9.e+]+)!?"`)
	widthRe        = regexp.MustCompile(`\bwidth="?([0-9.e+]+)"?`)
	heightRe       = regexp.MustCompile(`\bheight="?([0-9.e+]+)"?`)
)

// parsePositions reads node centers and sizes (converted to points) and the
// top of the bounding box from Graphviz "dot" output. A node without a pos
// is skipped; a pos, width or height that is not a number is an error.
func parsePositions(out []byte) (*placements, error) {
	text := continuationRe.ReplaceAllString(string(out), "")

	bb := bbRe.FindStringSubmatch(text)
	if bb == nil {
		return nil, fmt.Errorf("layout: no bounding box in graphviz output")
	}
	top, err := strconv.ParseFloat(bb[4], 64)
	if err != nil {
		return nil, fmt.Errorf("layout: bounding box: %w", err)
	}

	res := &placements{top: top, nodes: make(map[string]placement)}
	for _, m := range nodeStmtRe.FindAllStringSubmatch(text, -1) {
		id, attrs := m[1], m[2]
		pos := posRe.FindStringSubmatch(attrs)
		if pos == nil {
			continue
		}
		var p placement
		if p.cx, err = parseAttr(id, "pos", pos[1], 1); err != nil {
			return nil, err
		}
		if p.cy, err = parseAttr(id, "pos", pos[2], 1); err != nil {
			return nil, err
		}
		if w := widthRe.FindStringSubmatch(attrs); w != nil {
			if p.w, err = parseAttr(id, "width", w[1], pointsPerInch); err != nil {
				return nil, err
			}
		}
		if h := heightRe.FindStringSubmatch(attrs); h != nil {
			if p.h, err = parseAttr(id, "height", h[1], pointsPerInch); err != nil {
				return nil, err
			}
		}
		res.nodes[id] = p
	}
	return res, nil
}

// parseAttr parses one numeric attribute of a laid-out node and scales it.
func parseAttr(id, name, v string, scale float64) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("layout: node %s %s %q: %w", id, name, v, err)
	}
	return f * scale, nil
}
