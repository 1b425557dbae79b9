package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Run Metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Analysis Metrics
	AnalysisRunsTotal       *prometheus.CounterVec
	AnalysisDuration        *prometheus.HistogramVec
	PathSourcesProcessed    prometheus.Counter
	SimilarityPairsCompared prometheus.Counter
	WorkerPanicsTotal       prometheus.Counter

	// Graph Metrics
	GraphNodes             prometheus.Gauge
	GraphEdges             prometheus.Gauge
	GraphSelfLoopsDropped  prometheus.Gauge
	GraphDuplicatesDropped prometheus.Gauge

	// Ingest Metrics
	EdgesIngestedTotal *prometheus.CounterVec
	LinesSkippedTotal  *prometheus.CounterVec
	IngestDuration     *prometheus.HistogramVec

	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// System Metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initRunMetrics()
	r.initAnalysisMetrics()
	r.initGraphMetrics()
	r.initIngestMetrics()
	r.initHTTPMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
