package algorithms

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// Centering selects the mean that degrees are centered on before correlating.
type Centering int

const (
	// CenterNodeMean centers both endpoints on the mean degree over nodes.
	CenterNodeMean Centering = iota
	// CenterEndpointMean centers on the mean degree over edge endpoints,
	// which is Newman's degree assortativity coefficient.
	CenterEndpointMean
)

func (c Centering) String() string {
	switch c {
	case CenterNodeMean:
		return "node-mean"
	case CenterEndpointMean:
		return "endpoint-mean"
	default:
		return "unknown"
	}
}

// MarshalText encodes the centering by name.
func (c Centering) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a centering name.
func (c *Centering) UnmarshalText(text []byte) error {
	v, ok := ParseCentering(string(text))
	if !ok {
		return fmt.Errorf("unknown centering %q", text)
	}
	*c = v
	return nil
}

// ParseCentering maps a config string to a Centering.
func ParseCentering(s string) (Centering, bool) {
	switch s {
	case "", "node-mean":
		return CenterNodeMean, true
	case "endpoint-mean":
		return CenterEndpointMean, true
	default:
		return CenterNodeMean, false
	}
}

// AssortativityOptions configures DegreeAssortativity.
type AssortativityOptions struct {
	Centering Centering
}

// AssortativityResult holds the degree correlation coefficient.
type AssortativityResult struct {
	Coefficient   Value     `json:"coefficient"`
	MeanDegree    float64   `json:"mean_degree"`
	EdgeInstances int       `json:"edge_instances"`
	Centering     Centering `json:"centering"`
}

// DegreeAssortativity correlates the degrees at the two ends of every ordered
// edge instance; each undirected edge contributes (u, v) and (v, u).
//
// The coefficient is Undefined when there are no edges or when the centered
// sum of squares is zero, as in any regular graph.
func DegreeAssortativity(g *graph.Graph, opts AssortativityOptions) *AssortativityResult {
	n := g.NodeCount()
	result := &AssortativityResult{Centering: opts.Centering}
	if n == 0 {
		return result
	}

	degrees := make([]float64, n)
	for i := range degrees {
		degrees[i] = float64(g.DegreeAt(i))
	}
	result.MeanDegree = stat.Mean(degrees, nil)

	m := 2 * g.EdgeCount()
	result.EdgeInstances = m
	if m == 0 {
		return result
	}

	switch opts.Centering {
	case CenterEndpointMean:
		xs := make([]float64, 0, m)
		ys := make([]float64, 0, m)
		for i := 0; i < n; i++ {
			for _, j := range g.NeighborIndices(i) {
				xs = append(xs, degrees[i])
				ys = append(ys, degrees[j])
			}
		}
		result.Coefficient = clampCorrelation(stat.Correlation(xs, ys, nil))
	default:
		mean := result.MeanDegree
		var cov, ss float64
		for i := 0; i < n; i++ {
			dx := degrees[i] - mean
			for _, j := range g.NeighborIndices(i) {
				cov += dx * (degrees[j] - mean)
				// The edge instances are symmetric, so the sums of squares of
				// both endpoints are equal and the denominator is ss itself.
				ss += dx * dx
			}
		}
		if ss == 0 {
			return result
		}
		result.Coefficient = clampCorrelation(cov / ss)
	}
	return result
}

func clampCorrelation(r float64) Value {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Undefined
	}
	return Defined(math.Max(-1, math.Min(1, r)))
}
