package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	f := promauto.With(r.registry)

	r.SeedsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_seeds_total",
			Help: "Total number of investigations seeded",
		},
		[]string{"status"},
	)

	r.SeedDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ownergraph_seed_duration_seconds",
			Help:    "Time to fetch and assemble a seed company",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.ExpansionsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_expansions_total",
			Help: "Total number of expansion requests",
		},
		[]string{"status"},
	)

	r.ExpansionDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ownergraph_expansion_duration_seconds",
			Help:    "Expansion latency in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	r.LevelsCompleted = f.NewCounter(
		prometheus.CounterOpts{
			Name: "ownergraph_expansion_levels_total",
			Help: "Total number of expansion levels completed",
		},
	)

	r.NodesCreatedTotal = f.NewCounter(
		prometheus.CounterOpts{
			Name: "ownergraph_nodes_created_total",
			Help: "Total number of nodes created by expansion",
		},
	)

	r.FetchFailuresTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_fetch_failures_total",
			Help: "Per-node registry fetch failures during expansion",
		},
		[]string{"kind"},
	)

	r.LayoutDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ownergraph_layout_duration_seconds",
			Help:    "Layout computation time in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.LayoutNodes = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ownergraph_layout_nodes",
			Help:    "Number of nodes per layout",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000},
		},
	)
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)

	r.CacheHitsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"namespace"},
	)

	r.CacheMissesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"namespace"},
	)

	r.CacheWriteBytes = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ownergraph_cache_write_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"namespace"},
	)
}

func (r *Registry) initRegistryMetrics() {
	f := promauto.With(r.registry)

	r.RegistryRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_registry_requests_total",
			Help: "Total number of registry API requests",
		},
		[]string{"method", "host", "status"},
	)

	r.RegistryRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ownergraph_registry_request_duration_seconds",
			Help:    "Registry API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "host"},
	)

	r.RegistryErrorsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_registry_errors_total",
			Help: "Registry API transport failures",
		},
		[]string{"method", "host"},
	)
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ownergraph_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ownergraph_http_request_duration_seconds",
			Help:    "HTTP API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}
