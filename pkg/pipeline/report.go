package pipeline

import (
	"time"

	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/ingest"
)

// Report is the structured result of one analysis run. Sections for metrics
// that were not selected are nil.
type Report struct {
	RunID     string        `json:"run_id"`
	Source    string        `json:"source"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	Ingest IngestSummary `json:"ingest"`
	Graph  GraphSummary  `json:"graph"`

	Degree        *DegreeReport                    `json:"degree,omitempty"`
	Similarity    *algorithms.SimilarityResult     `json:"similarity,omitempty"`
	Clustering    *algorithms.ClusteringResult     `json:"clustering,omitempty"`
	Assortativity *algorithms.AssortativityResult  `json:"assortativity,omitempty"`
	Paths         *algorithms.PathLengthResult     `json:"paths,omitempty"`
	SmallWorld    *algorithms.SmallWorldAssessment `json:"small_world,omitempty"`

	Timings []MetricTiming `json:"timings"`
}

// IngestSummary describes what was read from the source.
type IngestSummary struct {
	ingest.ParseStats
	// EdgesUsed is the number of edges passed to the graph builder, which is
	// below Edges when the edge list was sampled.
	EdgesUsed int  `json:"edges_used"`
	Sampled   bool `json:"sampled"`
}

// GraphSummary describes the built graph.
type GraphSummary struct {
	Nodes             int     `json:"nodes"`
	Edges             int     `json:"edges"`
	MeanDegree        float64 `json:"mean_degree"`
	SelfLoopsDropped  int     `json:"self_loops_dropped"`
	DuplicatesDropped int     `json:"duplicates_dropped"`
}

// DegreeReport holds the degree histogram and its binned summary.
type DegreeReport struct {
	Histogram *algorithms.DegreeHistogram `json:"histogram"`
	Bins      []algorithms.DegreeBin      `json:"bins"`
}

// MetricTiming is the wall time spent computing one metric.
type MetricTiming struct {
	Metric   string        `json:"metric"`
	Duration time.Duration `json:"duration_ns"`
}
