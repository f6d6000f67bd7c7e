package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/graph"
	"github.com/matzehuels/ownergraph/pkg/layout"
)

// Output formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatJSON: true, formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true}

// pngScale is the rasterization scale for PNG output.
const pngScale = 2.0

// parseFormats parses a comma-separated --format flag. An empty flag
// selects def.
func parseFormats(s, def string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{def}, nil
	}
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if !validFormats[f] {
			return nil, ogerrors.New(ogerrors.ErrCodeInvalidFormat,
				"invalid format: %s (must be json, dot, svg, pdf or png)", f)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// basePath derives the output path without extension. An empty output
// uses fallback; a known format extension on output is stripped.
func basePath(output, fallback string) string {
	if output == "" {
		return strings.TrimSuffix(fallback, filepath.Ext(fallback))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// encodeGraph produces g in one output format. Drawings go through the
// styled DOT export.
func encodeGraph(ctx context.Context, g *graph.Graph, format string, opts layout.Options) ([]byte, error) {
	if format == formatJSON {
		return graph.MarshalGraph(g)
	}
	dot := layout.ToDOT(g, opts)
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := layout.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatPDF:
		return layout.ToPDF(ctx, svg)
	case formatPNG:
		return layout.ToPNG(ctx, svg, pngScale)
	}
	return svg, nil
}

// writeOutputs writes g once per format to base.<format> and returns the
// written paths. With output "-" the single format goes to stdout.
func writeOutputs(ctx context.Context, g *graph.Graph, formats []string, output, fallback string, opts layout.Options) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, ogerrors.New(ogerrors.ErrCodeInvalidFormat, "stdout output takes exactly one format")
		}
		data, err := encodeGraph(ctx, g, formats[0], opts)
		if err != nil {
			return nil, err
		}
		_, err = os.Stdout.Write(data)
		return nil, err
	}

	base := basePath(output, fallback)
	var paths []string
	for _, f := range formats {
		data, err := encodeGraph(ctx, g, f, opts)
		if err != nil {
			return paths, err
		}
		path := base + "." + f
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// emphasisOpts returns DOT options that dim everything outside the
// active node's connections, or plain options when nothing is active.
func emphasisOpts(g *graph.Graph, active string, dir layout.Direction, detailed bool) (layout.Options, error) {
	opts := layout.Options{Direction: dir, Detailed: detailed}
	if active == "" {
		return opts, nil
	}
	if !g.HasNode(active) {
		return opts, ogerrors.New(ogerrors.ErrCodeNodeNotFound, "node %s not in graph", active)
	}
	em := graph.Highlight(g, active)
	opts.Emphasis = &em
	return opts, nil
}
