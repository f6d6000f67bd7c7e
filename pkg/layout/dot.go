package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ownergraph/pkg/graph"
)

// Options configures styled DOT export.
type Options struct {
	Direction Direction       // Rank direction (default: TopBottom)
	Emphasis  *graph.Emphasis // Dims everything not emphasized when set
	Detailed  bool            // Adds role, status and subtext lines to labels
}

// Fill colors per node kind. A node's CustomColor wins.
var kindFill = map[graph.Kind]string{
	graph.KindCompany: "#dbeafe",
	graph.KindOfficer: "#dcfce7",
	graph.KindPSC:     "#fef9c3",
	graph.KindAddress: "#f3f4f6",
}

const dimmed = "#d1d5db"

// ToDOT converts a graph to a styled Graphviz DOT document. The result can
// be rendered with [RenderSVG], [ToPDF] or [ToPNG].
//
// Edge minimum lengths match [Engine.Apply], so the exported drawing has
// the same tiers as the interactive layout.
func ToDOT(g *graph.Graph, opts Options) string {
	dir := opts.Direction
	if dir != LeftRight {
		dir = TopBottom
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *graph.Node, detailed bool) string {
	label := graph.Display(n.Label)
	if !detailed {
		return label
	}
	lines := []string{label}
	for _, s := range []string{n.Role, n.Status, n.Subtext} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

func nodeAttrs(n *graph.Node, opts Options) []string {
	fill := kindFill[n.Kind]
	if n.CustomColor != "" {
		fill = n.CustomColor
	}
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", fill),
	}
	if n.Kind == graph.KindAddress {
		attrs = append(attrs, "shape=note")
	}
	if opts.Emphasis != nil && opts.Emphasis.Any() && !opts.Emphasis.Nodes[n.ID] {
		attrs = append(attrs, fmt.Sprintf("color=%q", dimmed), fmt.Sprintf("fontcolor=%q", dimmed))
	}
	if n.Notes != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Notes))
	}
	return attrs
}

func edgeAttrs(e *graph.Edge, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("minlen=%d", MinLen(e.Relation)),
		fmt.Sprintf("style=%s", e.Style),
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if opts.Emphasis != nil && opts.Emphasis.Any() && !opts.Emphasis.Edges[e.ID] {
		attrs = append(attrs, fmt.Sprintf("color=%q", dimmed), fmt.Sprintf("fontcolor=%q", dimmed))
	}
	return attrs
}

// RenderSVG lays out an ownership graph's DOT source and returns SVG that
// scales to the investigation view. [ToPDF] and [ToPNG] accept the result.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, []byte(dot), graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return fitSVG(out), nil
}

var (
	svgRootRe = regexp.MustCompile(`<svg\b[^>]*>`)
	viewBoxRe = regexp.MustCompile(`\bviewBox="([^"]*)"`)
)

// fitSVG replaces the root element's point-based size with a viewBox anchored
// at the origin and unitless width and height. Nested svg elements keep their
// attributes. Input without a usable viewBox comes back unchanged.
func fitSVG(svg []byte) []byte {
	root := svgRootRe.Find(svg)
	if root == nil {
		return svg
	}
	m := viewBoxRe.FindSubmatch(root)
	if m == nil {
		return svg
	}
	box := strings.Fields(string(m[1]))
	if len(box) != 4 {
		return svg
	}
	w, err := strconv.ParseFloat(box[2], 64)
	if err != nil || w <= 0 {
		return svg
	}
	h, err := strconv.ParseFloat(box[3], 64)
	if err != nil || h <= 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return bytes.Replace(svg, root, []byte(tag), 1)
}
