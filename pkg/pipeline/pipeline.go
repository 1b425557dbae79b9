// Package pipeline runs one configurable analysis pass: load an edge list from
// an injected source, build the graph, compute the selected metrics and
// collect them into a Report.
package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/config"
	"github.com/dd0wney/cluso-graphstats/pkg/graph"
	"github.com/dd0wney/cluso-graphstats/pkg/ingest"
	"github.com/dd0wney/cluso-graphstats/pkg/logging"
	"github.com/dd0wney/cluso-graphstats/pkg/metrics"
	"github.com/dd0wney/cluso-graphstats/pkg/parallel"
)

// Stage names reported in progress events besides the metric names.
const (
	StageLoad  = "load"
	StageBuild = "build"
)

// Event is a progress notification. Done and Total count units of work
// inside a stage when the stage can measure them; Total is 0 otherwise.
type Event struct {
	Stage    string
	Done     int64
	Total    int64
	Finished bool
}

// ProgressFunc receives progress events. It may be called concurrently.
type ProgressFunc func(Event)

// Pipeline computes a fixed selection of metrics.
type Pipeline struct {
	opts     Options
	plan     []string
	logger   logging.Logger
	metrics  *metrics.Registry
	progress ProgressFunc
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics records run metrics into r
func WithMetrics(r *metrics.Registry) Option {
	return func(p *Pipeline) {
		p.metrics = r
	}
}

// WithProgress registers a progress callback. A nil fn is ignored.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.progress = fn
		}
	}
}

// New validates opts and creates a Pipeline.
func New(opts Options, options ...Option) (*Pipeline, error) {
	plan, err := opts.plan()
	if err != nil {
		return nil, err
	}
	if err := algorithms.ValidateBins(opts.DegreeBins); err != nil {
		return nil, err
	}

	p := &Pipeline{
		opts:     opts,
		plan:     plan,
		logger:   logging.NewNopLogger(),
		progress: func(Event) {},
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// Plan returns the metrics this pipeline computes, in order.
func (p *Pipeline) Plan() []string {
	return append([]string(nil), p.plan...)
}

// Run loads src and analyzes it. The graph is built once and every metric
// reads it without modification.
func (p *Pipeline) Run(ctx context.Context, src ingest.Source) (*Report, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Source:    src.Name(),
		StartedAt: time.Now(),
	}
	log := p.logger.With(logging.RunID(report.RunID), logging.Source(report.Source))
	log.Info("analysis started", logging.Any("metrics", p.plan), logging.Workers(parallel.ResolveWorkers(p.opts.Workers)))

	err := p.run(ctx, src, report, log)
	report.Duration = time.Since(report.StartedAt)

	status := runStatus(err)
	if p.metrics != nil {
		p.metrics.RecordRun(status, report.Duration)
	}
	if err != nil {
		log.Error("analysis failed", logging.Error(err), logging.String("status", status), logging.Latency(report.Duration))
		return nil, err
	}
	log.Info("analysis finished", logging.Nodes(report.Graph.Nodes), logging.Edges(report.Graph.Edges), logging.Latency(report.Duration))
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, src ingest.Source, report *Report, log logging.Logger) error {
	g, err := p.load(ctx, src, report, log)
	if err != nil {
		return err
	}
	return p.Analyze(ctx, g, report, log)
}

func (p *Pipeline) load(ctx context.Context, src ingest.Source, report *Report, log logging.Logger) (*graph.Graph, error) {
	p.progress(Event{Stage: StageLoad})
	timer := logging.StartTimer(log, "edges loaded", logging.Component(StageLoad))
	edges, stats, err := src.Load(ctx)
	if err != nil {
		timer.EndError(err)
		return nil, &StageError{Stage: StageLoad, Cause: err}
	}
	if p.metrics != nil {
		p.metrics.RecordIngest(src.Name(), stats.Edges, stats.Skipped, timer.Elapsed())
	}
	timer.End(logging.Int("lines", stats.Lines), logging.Edges(stats.Edges), logging.Int("skipped", stats.Skipped))
	p.progress(Event{Stage: StageLoad, Finished: true})

	used := ingest.SampleEdges(edges, p.opts.EdgeLimit, p.opts.EdgeSeed)
	report.Ingest = IngestSummary{
		ParseStats: stats,
		EdgesUsed:  len(used),
		Sampled:    len(used) < len(edges),
	}
	if report.Ingest.Sampled {
		log.Info("edge list sampled", logging.Count(len(used)), logging.Uint64("seed", p.opts.EdgeSeed))
	}

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageBuild, Cause: err}
	}
	p.progress(Event{Stage: StageBuild})
	timer = logging.StartTimer(log, "graph built", logging.Component(StageBuild))
	b := graph.NewBuilder()
	b.AddEdges(used)
	g := b.Build()

	report.Graph = GraphSummary{
		Nodes:             g.NodeCount(),
		Edges:             g.EdgeCount(),
		MeanDegree:        algorithms.MeanDegree(g),
		SelfLoopsDropped:  b.SelfLoopsDropped,
		DuplicatesDropped: b.DuplicatesDropped,
	}
	if p.metrics != nil {
		p.metrics.UpdateGraphMetrics(g.NodeCount(), g.EdgeCount(), b.SelfLoopsDropped, b.DuplicatesDropped)
	}
	timer.End(logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount()),
		logging.Int("self_loops_dropped", b.SelfLoopsDropped), logging.Int("duplicates_dropped", b.DuplicatesDropped))
	p.progress(Event{Stage: StageBuild, Finished: true})
	return g, nil
}

// Analyze computes the planned metrics over an already built graph and fills
// the metric sections of report.
func (p *Pipeline) Analyze(ctx context.Context, g *graph.Graph, report *Report, log logging.Logger) error {
	if report.Graph.Nodes == 0 && g.NodeCount() > 0 {
		report.Graph = GraphSummary{Nodes: g.NodeCount(), Edges: g.EdgeCount(), MeanDegree: algorithms.MeanDegree(g)}
	}
	for _, m := range p.plan {
		if err := p.compute(ctx, m, g, report, log); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) compute(ctx context.Context, metric string, g *graph.Graph, report *Report, log logging.Logger) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: metric, Cause: err}
	}

	p.progress(Event{Stage: metric})
	timer := logging.StartTimer(log, "metric computed", logging.Metric(metric))

	err := p.computeMetric(ctx, metric, g, report)
	elapsed := timer.Elapsed()
	if p.metrics != nil {
		p.metrics.RecordAnalysis(metric, runStatus(err), elapsed)
		if errors.Is(err, parallel.ErrTaskPanic) {
			p.metrics.WorkerPanicsTotal.Inc()
		}
	}
	if err != nil {
		timer.EndError(err)
		return &StageError{Stage: metric, Cause: err}
	}

	timer.End()
	report.Timings = append(report.Timings, MetricTiming{Metric: metric, Duration: elapsed})
	p.progress(Event{Stage: metric, Finished: true})
	return nil
}

func (p *Pipeline) computeMetric(ctx context.Context, metric string, g *graph.Graph, report *Report) error {
	switch metric {
	case config.MetricDegree:
		h := algorithms.DegreeDistribution(g)
		bins, err := h.Bin(p.opts.DegreeBins)
		if err != nil {
			return err
		}
		report.Degree = &DegreeReport{Histogram: h, Bins: bins}

	case config.MetricSimilarity:
		opts := p.opts.Similarity
		opts.Workers = p.opts.Workers
		res, err := algorithms.SimilarityExtremes(ctx, g, opts)
		if err != nil {
			return err
		}
		if p.metrics != nil {
			p.metrics.SimilarityPairsCompared.Add(float64(res.PairsCompared))
		}
		report.Similarity = res

	case config.MetricClustering:
		res, err := algorithms.GlobalClusteringCoefficient(ctx, g, algorithms.ClusteringOptions{Workers: p.opts.Workers})
		if err != nil {
			return err
		}
		report.Clustering = res

	case config.MetricAssortativity:
		report.Assortativity = algorithms.DegreeAssortativity(g, p.opts.Assortativity)

	case config.MetricPaths:
		res, err := algorithms.AverageShortestPathLength(ctx, g, p.pathOptions(g))
		if err != nil {
			return err
		}
		report.Paths = res

	case config.MetricSmallWorld:
		if report.Clustering == nil || report.Paths == nil {
			return errors.New("clustering and paths must be computed first")
		}
		report.SmallWorld = algorithms.AssessSmallWorld(
			g.NodeCount(), algorithms.MeanDegree(g), report.Clustering.Coefficient, report.Paths.Average,
		)

	default:
		return ErrUnknownMetric
	}
	return nil
}

// pathOptions wires per-source progress into the BFS workers.
func (p *Pipeline) pathOptions(g *graph.Graph) algorithms.PathOptions {
	opts := p.opts.Paths
	opts.Workers = p.opts.Workers

	total := int64(g.NodeCount())
	if opts.SampleSize > 0 && int64(opts.SampleSize) < total {
		total = int64(opts.SampleSize)
	}
	var done atomic.Int64
	opts.OnSource = func() {
		n := done.Add(1)
		if p.metrics != nil {
			p.metrics.PathSourcesProcessed.Inc()
		}
		p.progress(Event{Stage: config.MetricPaths, Done: n, Total: total})
	}
	return opts
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusCancelled
	default:
		return metrics.StatusError
	}
}
