package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// RecordRun records a finished analysis run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// RecordAnalysis records one metric computation
func (r *Registry) RecordAnalysis(metric, status string, duration time.Duration) {
	r.AnalysisRunsTotal.WithLabelValues(metric, status).Inc()
	r.AnalysisDuration.WithLabelValues(metric).Observe(duration.Seconds())
}

// RecordIngest records edges loaded from a source
func (r *Registry) RecordIngest(source string, edges, skipped int, duration time.Duration) {
	r.EdgesIngestedTotal.WithLabelValues(source).Add(float64(edges))
	r.LinesSkippedTotal.WithLabelValues(source).Add(float64(skipped))
	r.IngestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// UpdateGraphMetrics sets the size of the analyzed graph
func (r *Registry) UpdateGraphMetrics(nodes, edges, selfLoops, duplicates int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.GraphSelfLoopsDropped.Set(float64(selfLoops))
	r.GraphDuplicatesDropped.Set(float64(duplicates))
}

// RecordHTTPRequest records a report server request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration, size int) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	r.HTTPResponseSizeBytes.WithLabelValues(method, route).Observe(float64(size))
}

// UpdateSystemMetrics samples Go runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path in the text format read by the
// node_exporter textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}
