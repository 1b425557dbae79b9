package algorithms

import (
	"math"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// Interconnection classifies an average shortest path length against one hop.
type Interconnection string

const (
	// InterconnectionHigh means most reachable pairs are direct neighbors.
	InterconnectionHigh Interconnection = "high"
	// InterconnectionLow means paths typically need intermediaries.
	InterconnectionLow Interconnection = "low"
	// InterconnectionUnit means every reachable pair is exactly one hop apart.
	InterconnectionUnit Interconnection = "unit"
)

// ClassifyInterconnection compares an average path length with 1.
func ClassifyInterconnection(aspl float64) Interconnection {
	switch {
	case aspl < 1:
		return InterconnectionHigh
	case aspl > 1:
		return InterconnectionLow
	default:
		return InterconnectionUnit
	}
}

// MeanDegree returns 2E/V, or 0 for an empty graph.
func MeanDegree(g *graph.Graph) float64 {
	if g.NodeCount() == 0 {
		return 0
	}
	return 2 * float64(g.EdgeCount()) / float64(g.NodeCount())
}

// SmallWorldAssessment compares the observed clustering and path length with
// the expectations for an Erdős–Rényi random graph of the same size and mean
// degree.
type SmallWorldAssessment struct {
	Nodes            int             `json:"nodes"`
	MeanDegree       float64         `json:"mean_degree"`
	Clustering       float64         `json:"clustering"`
	AveragePath      float64         `json:"average_path"`
	RandomClustering Value           `json:"random_clustering"`  // <k>/N
	RandomPath       Value           `json:"random_path"`        // ln N / ln <k>
	Sigma            Value           `json:"sigma"`              // (C/C_rand) / (L/L_rand)
	SmallWorld       bool            `json:"small_world"`        // Sigma > 1
	Interconnection  Interconnection `json:"interconnection"`
}

// AssessSmallWorld computes the small-world coefficient sigma. The random
// baselines are Undefined when N < 2 or <k> <= 1, and sigma is Undefined
// whenever a baseline is or the observed path length is 0.
func AssessSmallWorld(nodes int, meanDegree, clustering, aspl float64) *SmallWorldAssessment {
	a := &SmallWorldAssessment{
		Nodes:           nodes,
		MeanDegree:      meanDegree,
		Clustering:      clustering,
		AveragePath:     aspl,
		Interconnection: ClassifyInterconnection(aspl),
	}
	if nodes < 2 || meanDegree <= 1 {
		return a
	}

	cRand := meanDegree / float64(nodes)
	lRand := math.Log(float64(nodes)) / math.Log(meanDegree)
	a.RandomClustering = Defined(cRand)
	a.RandomPath = Defined(lRand)
	if aspl <= 0 || cRand <= 0 {
		return a
	}

	sigma := (clustering / cRand) / (aspl / lRand)
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return a
	}
	a.Sigma = Defined(sigma)
	a.SmallWorld = sigma > 1
	return a
}
