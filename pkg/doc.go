// Package pkg provides the core libraries for ownergraph ownership
// investigations.
//
// # Overview
//
// ownergraph seeds a graph from a company in the Companies House register
// and grows it outward through officers, persons with significant control
// and shared registered addresses. The pkg directory is organized into
// these areas:
//
//  1. [registry] - Registry records and the [registry.Fetcher] contract
//  2. [graph] - Entity graph, assembly, emphasis and JSON serialization
//  3. [expand] - Breadth-first, level-bounded graph growth
//  4. [layout] - Graphviz layout and DOT/SVG/PDF/PNG export
//  5. [session] - Investigations with generation tracking and a session store
//
// # Architecture
//
// The typical data flow:
//
//	Companies House API
//	         ↓
//	    [integrations/companieshouse] (cached, rate limited fetches)
//	         ↓
//	    [graph] (assemble company, officers, PSCs and addresses)
//	         ↓
//	    [expand] (grow the graph from a chosen node)
//	         ↓
//	    [layout] (positions, then DOT/SVG/PDF/PNG)
//
// # Quick Start
//
//	backend, _ := cache.NewFileCache(dir)
//	client := companieshouse.NewClient(apiKey, backend, 24*time.Hour)
//
//	inv := session.New(expand.New(client, expand.Options{}), session.Options{
//	    Layouter: layout.NewEngine(),
//	})
//	view, _ := inv.Search(ctx, "00000006")
//	view, _, _ = inv.Expand(ctx, "officer-abc123", 2)
//
//	dot := layout.ToDOT(view.Graph, layout.Options{Direction: view.Direction})
//	svg, _ := layout.RenderSVG(ctx, dot)
//
// # Supporting Packages
//
// [cache] - Response cache backends (file, Redis, MongoDB, none) and the
// retry policy used by HTTP clients.
//
// [integrations] - Shared HTTP client with caching, retry and rate limiting.
//
// [errors] - Coded errors and input validation.
//
// [config] - Layered TOML, .env and environment configuration.
//
// [metrics] and [observability] - Prometheus collectors fed by lightweight
// hooks in the graph, cache and HTTP layers.
//
// [buildinfo] - Version information injected at link time.
package pkg
