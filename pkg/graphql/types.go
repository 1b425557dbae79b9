package graphql

import (
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// from adapts a typed accessor into a resolver for fields of a T source.
// A source of another type resolves to null.
func from[T any](fn func(T) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		src, ok := p.Source.(T)
		if !ok {
			return nil, nil
		}
		return fn(src), nil
	}
}

// nullable maps an undefined statistic to null.
func nullable(v algorithms.Value) any {
	if f, ok := v.Get(); ok {
		return f
	}
	return nil
}

// nodeID renders a node id as a string since ids exceed GraphQL's 32-bit Int.
func nodeID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

var graphSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GraphSummary",
	Fields: graphql.Fields{
		"nodes":             {Type: graphql.Int, Resolve: from(func(g *pipeline.GraphSummary) any { return g.Nodes })},
		"edges":             {Type: graphql.Int, Resolve: from(func(g *pipeline.GraphSummary) any { return g.Edges })},
		"meanDegree":        {Type: graphql.Float, Resolve: from(func(g *pipeline.GraphSummary) any { return g.MeanDegree })},
		"selfLoopsDropped":  {Type: graphql.Int, Resolve: from(func(g *pipeline.GraphSummary) any { return g.SelfLoopsDropped })},
		"duplicatesDropped": {Type: graphql.Int, Resolve: from(func(g *pipeline.GraphSummary) any { return g.DuplicatesDropped })},
	},
})

var ingestType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Ingest",
	Fields: graphql.Fields{
		"lines":     {Type: graphql.Int, Resolve: from(func(s *pipeline.IngestSummary) any { return s.Lines })},
		"edges":     {Type: graphql.Int, Resolve: from(func(s *pipeline.IngestSummary) any { return s.Edges })},
		"skipped":   {Type: graphql.Int, Resolve: from(func(s *pipeline.IngestSummary) any { return s.Skipped })},
		"edgesUsed": {Type: graphql.Int, Resolve: from(func(s *pipeline.IngestSummary) any { return s.EdgesUsed })},
		"sampled":   {Type: graphql.Boolean, Resolve: from(func(s *pipeline.IngestSummary) any { return s.Sampled })},
	},
})

var degreeBinType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DegreeBin",
	Fields: graphql.Fields{
		"label":     {Type: graphql.String, Resolve: from(func(b algorithms.DegreeBin) any { return b.Label() })},
		"min":       {Type: graphql.Int, Resolve: from(func(b algorithms.DegreeBin) any { return b.Min })},
		"max":       {Type: graphql.Int, Resolve: from(func(b algorithms.DegreeBin) any { return b.Max })},
		"unbounded": {Type: graphql.Boolean, Resolve: from(func(b algorithms.DegreeBin) any { return b.Unbounded })},
		"count":     {Type: graphql.Int, Resolve: from(func(b algorithms.DegreeBin) any { return b.Count })},
	},
})

var degreeBucketType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DegreeBucket",
	Fields: graphql.Fields{
		"degree": {Type: graphql.Int, Resolve: from(func(b algorithms.DegreeBucket) any { return b.Degree })},
		"count":  {Type: graphql.Int, Resolve: from(func(b algorithms.DegreeBucket) any { return b.Count })},
	},
})

var degreeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Degree",
	Fields: graphql.Fields{
		"bins": {
			Type:    graphql.NewList(degreeBinType),
			Resolve: from(func(d *pipeline.DegreeReport) any { return d.Bins }),
		},
		"maxDegree": {
			Type:    graphql.Int,
			Resolve: from(func(d *pipeline.DegreeReport) any { return d.Histogram.MaxDegree() }),
		},
		"histogram": {
			Type: graphql.NewList(degreeBucketType),
			Args: graphql.FieldConfigArgument{
				"minDegree": &graphql.ArgumentConfig{Type: graphql.Int},
				"maxDegree": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: resolveHistogram,
		},
	},
})

// resolveHistogram returns the non-empty degree buckets inside the optional
// [minDegree, maxDegree] range.
func resolveHistogram(p graphql.ResolveParams) (any, error) {
	d, ok := p.Source.(*pipeline.DegreeReport)
	if !ok {
		return nil, nil
	}
	lo, hasLo := p.Args["minDegree"].(int)
	hi, hasHi := p.Args["maxDegree"].(int)

	var out []algorithms.DegreeBucket
	d.Histogram.Each(func(degree, count int) bool {
		if hasHi && degree > hi {
			return false
		}
		if !hasLo || degree >= lo {
			out = append(out, algorithms.DegreeBucket{Degree: degree, Count: count})
		}
		return true
	})
	return out, nil
}

var pairType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ScoredPair",
	Fields: graphql.Fields{
		"a":     {Type: graphql.ID, Resolve: from(func(s *algorithms.ScoredPair) any { return nodeID(uint64(s.A)) })},
		"b":     {Type: graphql.ID, Resolve: from(func(s *algorithms.ScoredPair) any { return nodeID(uint64(s.B)) })},
		"score": {Type: graphql.Float, Resolve: from(func(s *algorithms.ScoredPair) any { return s.Score })},
	},
})

var similarityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Similarity",
	Fields: graphql.Fields{
		"mostSimilar":    {Type: pairType, Resolve: from(func(s *algorithms.SimilarityResult) any { return section(s.Most) })},
		"leastSimilar":   {Type: pairType, Resolve: from(func(s *algorithms.SimilarityResult) any { return section(s.Least) })},
		"candidates":     {Type: graphql.Int, Resolve: from(func(s *algorithms.SimilarityResult) any { return s.Candidates })},
		"restricted":     {Type: graphql.Boolean, Resolve: from(func(s *algorithms.SimilarityResult) any { return s.Restricted })},
		"pairsCompared":  {Type: graphql.Float, Resolve: from(func(s *algorithms.SimilarityResult) any { return float64(s.PairsCompared) })},
		"undefinedPairs": {Type: graphql.Float, Resolve: from(func(s *algorithms.SimilarityResult) any { return float64(s.UndefinedPairs) })},
	},
})

var clusteringType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Clustering",
	Fields: graphql.Fields{
		"coefficient":      {Type: graphql.Float, Resolve: from(func(c *algorithms.ClusteringResult) any { return c.Coefficient })},
		"closedTriplets":   {Type: graphql.Float, Resolve: from(func(c *algorithms.ClusteringResult) any { return float64(c.ClosedTriplets) })},
		"possibleTriplets": {Type: graphql.Float, Resolve: from(func(c *algorithms.ClusteringResult) any { return float64(c.PossibleTriplets) })},
		"triangles":        {Type: graphql.Float, Resolve: from(func(c *algorithms.ClusteringResult) any { return float64(c.Triangles) })},
	},
})

var assortativityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Assortativity",
	Fields: graphql.Fields{
		"coefficient":   {Type: graphql.Float, Resolve: from(func(a *algorithms.AssortativityResult) any { return nullable(a.Coefficient) })},
		"meanDegree":    {Type: graphql.Float, Resolve: from(func(a *algorithms.AssortativityResult) any { return a.MeanDegree })},
		"edgeInstances": {Type: graphql.Int, Resolve: from(func(a *algorithms.AssortativityResult) any { return a.EdgeInstances })},
		"centering":     {Type: graphql.String, Resolve: from(func(a *algorithms.AssortativityResult) any { return a.Centering.String() })},
	},
})

var pathsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Paths",
	Fields: graphql.Fields{
		"average":       {Type: graphql.Float, Resolve: from(func(p *algorithms.PathLengthResult) any { return p.Average })},
		"totalDistance": {Type: graphql.Float, Resolve: from(func(p *algorithms.PathLengthResult) any { return float64(p.TotalDistance) })},
		"pairs":         {Type: graphql.Float, Resolve: from(func(p *algorithms.PathLengthResult) any { return float64(p.Pairs) })},
		"sources":       {Type: graphql.Int, Resolve: from(func(p *algorithms.PathLengthResult) any { return p.Sources })},
		"exact":         {Type: graphql.Boolean, Resolve: from(func(p *algorithms.PathLengthResult) any { return p.Exact })},
		"diameter":      {Type: graphql.Int, Resolve: from(func(p *algorithms.PathLengthResult) any { return p.Diameter })},
	},
})

var smallWorldType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SmallWorld",
	Fields: graphql.Fields{
		"randomClustering": {Type: graphql.Float, Resolve: from(func(s *algorithms.SmallWorldAssessment) any { return nullable(s.RandomClustering) })},
		"randomPath":       {Type: graphql.Float, Resolve: from(func(s *algorithms.SmallWorldAssessment) any { return nullable(s.RandomPath) })},
		"sigma":            {Type: graphql.Float, Resolve: from(func(s *algorithms.SmallWorldAssessment) any { return nullable(s.Sigma) })},
		"smallWorld":       {Type: graphql.Boolean, Resolve: from(func(s *algorithms.SmallWorldAssessment) any { return s.SmallWorld })},
		"interconnection":  {Type: graphql.String, Resolve: from(func(s *algorithms.SmallWorldAssessment) any { return string(s.Interconnection) })},
	},
})

var timingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MetricTiming",
	Fields: graphql.Fields{
		"metric":     {Type: graphql.String, Resolve: from(func(m pipeline.MetricTiming) any { return m.Metric })},
		"durationMs": {Type: graphql.Float, Resolve: from(func(m pipeline.MetricTiming) any { return float64(m.Duration.Microseconds()) / 1000 })},
	},
})
