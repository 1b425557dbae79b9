package pipeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/config"
	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// Options selects and tunes the metrics of a run.
type Options struct {
	// Metrics to compute, by config name. Empty means every metric.
	Metrics []string
	Workers int
	// Timeout bounds the whole run when positive.
	Timeout time.Duration

	DegreeBins []int

	// EdgeLimit keeps a seeded sample of at most this many input edges.
	EdgeLimit int
	EdgeSeed  uint64

	Similarity    algorithms.SimilarityOptions
	Paths         algorithms.PathOptions
	Assortativity algorithms.AssortativityOptions
}

// DefaultOptions computes every metric exactly with the default bins.
func DefaultOptions() Options {
	return Options{
		Metrics:    slices.Clone(config.AllMetrics),
		DegreeBins: slices.Clone(algorithms.DefaultDegreeBins),
	}
}

// OptionsFromConfig maps the analysis section of cfg onto Options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	a := cfg.Analysis
	centering, ok := algorithms.ParseCentering(a.Assortativity.Centering)
	if !ok {
		return Options{}, fmt.Errorf("unknown assortativity centering %q", a.Assortativity.Centering)
	}

	var nodes []graph.NodeID
	if len(a.Similarity.Nodes) > 0 {
		nodes = make([]graph.NodeID, len(a.Similarity.Nodes))
		for i, id := range a.Similarity.Nodes {
			nodes[i] = graph.NodeID(id)
		}
	}

	return Options{
		Metrics:    slices.Clone(a.Metrics),
		Workers:    a.Workers,
		Timeout:    a.Timeout,
		DegreeBins: slices.Clone(a.DegreeBins),
		EdgeLimit:  cfg.Source.EdgeLimit,
		EdgeSeed:   cfg.Source.SampleSeed,
		Similarity: algorithms.SimilarityOptions{
			Nodes:      nodes,
			SampleSize: a.Similarity.SampleSize,
			Seed:       a.Similarity.Seed,
		},
		Paths: algorithms.PathOptions{
			SampleSize: a.Paths.SampleSize,
			Seed:       a.Paths.Seed,
		},
		Assortativity: algorithms.AssortativityOptions{Centering: centering},
	}, nil
}

// plan resolves the metric selection into the ordered list to compute.
// The small-world assessment needs clustering and path lengths, so selecting
// it pulls both in.
func (o Options) plan() ([]string, error) {
	selected := o.Metrics
	if len(selected) == 0 {
		selected = config.AllMetrics
	}
	for _, m := range selected {
		if !slices.Contains(config.AllMetrics, m) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
		}
	}

	want := func(m string) bool {
		if slices.Contains(selected, m) {
			return true
		}
		return slices.Contains(selected, config.MetricSmallWorld) &&
			(m == config.MetricClustering || m == config.MetricPaths)
	}

	var out []string
	for _, m := range config.AllMetrics {
		if want(m) {
			out = append(out, m)
		}
	}
	return out, nil
}
