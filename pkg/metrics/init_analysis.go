package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// analysisBuckets spans sub-millisecond degree counts up to hour-long exact
// path computations.
var analysisBuckets = prometheus.ExponentialBuckets(0.001, 4, 12)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphstats_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphstats_run_duration_seconds",
			Help:    "End-to-end analysis run duration in seconds",
			Buckets: analysisBuckets,
		},
	)
}

func (r *Registry) initAnalysisMetrics() {
	r.AnalysisRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphstats_analysis_runs_total",
			Help: "Total number of metric computations",
		},
		[]string{"metric", "status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphstats_analysis_duration_seconds",
			Help:    "Metric computation duration in seconds",
			Buckets: analysisBuckets,
		},
		[]string{"metric"},
	)

	r.PathSourcesProcessed = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphstats_path_sources_processed_total",
			Help: "Total number of BFS sources processed for shortest paths",
		},
	)

	r.SimilarityPairsCompared = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphstats_similarity_pairs_compared_total",
			Help: "Total number of node pairs compared for Jaccard similarity",
		},
	)

	r.WorkerPanicsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphstats_worker_panics_total",
			Help: "Total number of panics recovered in analysis workers",
		},
	)
}
