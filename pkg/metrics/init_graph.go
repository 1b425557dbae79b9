package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphstats_graph_nodes",
			Help: "Number of nodes in the analyzed graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphstats_graph_edges",
			Help: "Number of undirected edges in the analyzed graph",
		},
	)

	r.GraphSelfLoopsDropped = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphstats_graph_self_loops_dropped",
			Help: "Self-loop edges dropped while building the graph",
		},
	)

	r.GraphDuplicatesDropped = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphstats_graph_duplicates_dropped",
			Help: "Duplicate edges dropped while building the graph",
		},
	)
}

func (r *Registry) initIngestMetrics() {
	r.EdgesIngestedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphstats_edges_ingested_total",
			Help: "Total number of edges read from sources",
		},
		[]string{"source"},
	)

	r.LinesSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphstats_lines_skipped_total",
			Help: "Total number of input lines without two node ids",
		},
		[]string{"source"},
	)

	r.IngestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphstats_ingest_duration_seconds",
			Help:    "Time spent loading edges from a source in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
}
