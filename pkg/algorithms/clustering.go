package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
	"github.com/dd0wney/cluso-graphstats/pkg/parallel"
)

// ClusteringOptions configures GlobalClusteringCoefficient.
type ClusteringOptions struct {
	// Workers is the number of goroutines; <= 0 means runtime.NumCPU().
	Workers int
}

// ClusteringResult holds the global clustering coefficient and the triplet
// counts it was derived from.
type ClusteringResult struct {
	Coefficient      float64 `json:"coefficient"`
	ClosedTriplets   int64   `json:"closed_triplets"`
	PossibleTriplets int64   `json:"possible_triplets"`
	Triangles        int64   `json:"triangles"`
}

// closedPairsAt counts the unordered pairs of neighbors of node i that are
// themselves adjacent.
func closedPairsAt(g *graph.Graph, i int) int64 {
	nb := g.NeighborIndices(i)
	var closed int64
	for x := 0; x < len(nb); x++ {
		for y := x + 1; y < len(nb); y++ {
			if g.AdjacentAt(nb[x], nb[y]) {
				closed++
			}
		}
	}
	return closed
}

// GlobalClusteringCoefficient returns closed / possible triplets, where every
// node of degree d >= 2 contributes d(d-1)/2 possible triplets and one closed
// triplet per adjacent pair of its neighbors. The coefficient is 0 when no
// node has degree >= 2.
//
// Work per node is quadratic in its degree, so the total cost is driven by
// the sum of squared degrees. On power-law graphs a few hubs dominate it.
func GlobalClusteringCoefficient(ctx context.Context, g *graph.Graph, opts ClusteringOptions) (*ClusteringResult, error) {
	result := &ClusteringResult{}
	n := g.NodeCount()
	if n == 0 {
		return result, ctx.Err()
	}

	type partial struct{ closed, possible int64 }

	chunks := parallel.Plan(opts.Workers, n)
	partials := make([]partial, len(chunks))

	err := parallel.RunChunks(ctx, opts.Workers, chunks, func(ctx context.Context, c parallel.Chunk) error {
		part := &partials[c.Index]
		for i := c.Lo; i < c.Hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			d := int64(g.DegreeAt(i))
			if d < 2 {
				continue
			}
			part.possible += d * (d - 1) / 2
			part.closed += closedPairsAt(g, i)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range partials {
		result.ClosedTriplets += p.closed
		result.PossibleTriplets += p.possible
	}
	// Every triangle closes one triplet at each of its three corners.
	result.Triangles = result.ClosedTriplets / 3
	if result.PossibleTriplets > 0 {
		result.Coefficient = float64(result.ClosedTriplets) / float64(result.PossibleTriplets)
	}
	return result, nil
}

// LocalClusteringCoefficients returns, for every node, the fraction of its
// neighbor pairs that are connected. Nodes with degree < 2 get 0.
func LocalClusteringCoefficients(g *graph.Graph) map[graph.NodeID]float64 {
	out := make(map[graph.NodeID]float64, g.NodeCount())
	for i := 0; i < g.NodeCount(); i++ {
		d := int64(g.DegreeAt(i))
		if d < 2 {
			out[g.NodeAt(i)] = 0
			continue
		}
		out[g.NodeAt(i)] = float64(closedPairsAt(g, i)) / float64(d*(d-1)/2)
	}
	return out
}

// AverageClusteringCoefficient is the mean of the local coefficients over all
// nodes, counting nodes of degree < 2 as 0. An empty graph yields 0.
func AverageClusteringCoefficient(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := int64(g.DegreeAt(i))
		if d < 2 {
			continue
		}
		sum += float64(closedPairsAt(g, i)) / float64(d*(d-1)/2)
	}
	return sum / float64(n)
}
