// Package layout assigns 2D positions to investigation graph nodes.
//
// [Engine] delegates to Graphviz's layered "dot" algorithm (via
// goccy/go-graphviz). Every node is a fixed-size box, and each edge carries
// a minimum rank span chosen by its relation: correspondence-address edges
// use [MinLenShort] so an address sits directly below its officer, all
// other edges use [MinLenLong] to keep company, officer and PSC tiers
// apart. Graphviz reports node centers in a bottom-left origin; Apply
// converts them to top-left anchored positions in a top-left origin.
//
// [ToDOT] produces a styled DOT document for export, and [RenderSVG],
// [ToPDF] and [ToPNG] turn it into images.
package layout
