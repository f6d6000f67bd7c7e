// Package metrics implements the observability hooks with Prometheus.
//
// A [Registry] satisfies [observability.GraphHooks],
// [observability.CacheHooks] and [observability.HTTPHooks]; register it at
// startup and expose [Registry.Handler] on /metrics:
//
//	reg := metrics.NewRegistry()
//	observability.SetGraphHooks(reg)
//	observability.SetCacheHooks(reg)
//	observability.SetHTTPHooks(reg)
//	r.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/ownergraph/pkg/observability"
)

// Registry holds all metrics for the application.
type Registry struct {
	// Graph metrics
	SeedsTotal         *prometheus.CounterVec
	SeedDuration       prometheus.Histogram
	ExpansionsTotal    *prometheus.CounterVec
	ExpansionDuration  prometheus.Histogram
	LevelsCompleted    prometheus.Counter
	NodesCreatedTotal  prometheus.Counter
	FetchFailuresTotal *prometheus.CounterVec
	LayoutDuration     prometheus.Histogram
	LayoutNodes        prometheus.Histogram

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWriteBytes  *prometheus.HistogramVec

	// Registry API metrics
	RegistryRequestsTotal   *prometheus.CounterVec
	RegistryRequestDuration *prometheus.HistogramVec
	RegistryErrorsTotal     *prometheus.CounterVec

	// HTTP API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initGraphMetrics()
	r.initCacheMetrics()
	r.initRegistryMetrics()
	r.initHTTPMetrics()
	return r
}

// Prometheus returns the underlying Prometheus registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordHTTPRequest records one API request served by the HTTP server.
func (r *Registry) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	r.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// =============================================================================
// observability.GraphHooks
// =============================================================================

func (r *Registry) OnSeed(_ context.Context, _ string, _ int, d time.Duration, err error) {
	r.SeedsTotal.WithLabelValues(status(err)).Inc()
	r.SeedDuration.Observe(d.Seconds())
}

func (r *Registry) OnExpandStart(context.Context, int, int) {}

func (r *Registry) OnLevelComplete(_ context.Context, _, _, created int, _ time.Duration) {
	r.LevelsCompleted.Inc()
	r.NodesCreatedTotal.Add(float64(created))
}

func (r *Registry) OnFetchError(_ context.Context, kind, _ string, _ error) {
	r.FetchFailuresTotal.WithLabelValues(kind).Inc()
}

func (r *Registry) OnExpandComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	r.ExpansionsTotal.WithLabelValues(status(err)).Inc()
	r.ExpansionDuration.Observe(d.Seconds())
}

func (r *Registry) OnLayout(_ context.Context, nodes int, d time.Duration, _ error) {
	r.LayoutDuration.Observe(d.Seconds())
	r.LayoutNodes.Observe(float64(nodes))
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// observability.HTTPHooks
// =============================================================================

func (r *Registry) OnRequest(context.Context, string, string, string) {}

func (r *Registry) OnResponse(_ context.Context, method, host, _ string, statusCode int, d time.Duration) {
	r.RegistryRequestsTotal.WithLabelValues(method, host, strconv.Itoa(statusCode)).Inc()
	r.RegistryRequestDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (r *Registry) OnError(_ context.Context, method, host, _ string, _ error) {
	r.RegistryErrorsTotal.WithLabelValues(method, host).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var (
	_ observability.GraphHooks = (*Registry)(nil)
	_ observability.CacheHooks = (*Registry)(nil)
	_ observability.HTTPHooks  = (*Registry)(nil)
)
