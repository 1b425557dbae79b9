package ingest

import (
	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// SampleEdges keeps a deterministic subset of at most limit edges chosen with
// seed, in their original order. A non-positive limit keeps every edge.
func SampleEdges(edges []graph.Edge, limit int, seed uint64) []graph.Edge {
	if limit <= 0 || limit >= len(edges) {
		return edges
	}
	idx := algorithms.SampleIndices(len(edges), limit, seed)
	out := make([]graph.Edge, len(idx))
	for i, j := range idx {
		out[i] = edges[j]
	}
	return out
}
