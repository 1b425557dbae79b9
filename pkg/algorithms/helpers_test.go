package algorithms

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

const epsilon = 1e-9

func buildTestGraph(t *testing.T, pairs ...[2]uint64) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for _, p := range pairs {
		b.AddEdge(graph.NodeID(p[0]), graph.NodeID(p[1]))
	}
	return b.Build()
}

// triangle is {(1,2),(2,3),(1,3)}.
func triangle(t *testing.T) *graph.Graph {
	t.Helper()
	return buildTestGraph(t, [2]uint64{1, 2}, [2]uint64{2, 3}, [2]uint64{1, 3})
}

// cycle4 is 1-2-3-4-1, every node of degree 2.
func cycle4(t *testing.T) *graph.Graph {
	t.Helper()
	return buildTestGraph(t, [2]uint64{1, 2}, [2]uint64{2, 3}, [2]uint64{3, 4}, [2]uint64{4, 1})
}

// path4 is 1-2-3-4.
func path4(t *testing.T) *graph.Graph {
	t.Helper()
	return buildTestGraph(t, [2]uint64{1, 2}, [2]uint64{2, 3}, [2]uint64{3, 4})
}

// star is a hub 0 with the given number of leaves 1..leaves.
func star(t *testing.T, leaves int) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for i := 1; i <= leaves; i++ {
		b.AddEdge(0, graph.NodeID(i))
	}
	return b.Build()
}

// isolated builds a graph holding only the given nodes and no edges.
func isolated(t *testing.T, ids ...uint64) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for _, id := range ids {
		b.AddNode(graph.NodeID(id))
	}
	return b.Build()
}

// randomGraph builds a reproducible G(n, p) style graph.
func randomGraph(t *testing.T, n int, p float64, seed uint64) *graph.Graph {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed+1))
	b := graph.NewBuilder()
	for u := 0; u < n; u++ {
		b.AddNode(graph.NodeID(u))
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				b.AddEdge(graph.NodeID(u), graph.NodeID(v))
			}
		}
	}
	return b.Build()
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}
