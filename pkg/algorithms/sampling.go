package algorithms

import (
	"math/rand/v2"
	"slices"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// seedStream decorrelates the two PCG state words derived from one seed.
const seedStream = 0x9e3779b97f4a7c15

// SampleIndices returns k distinct indices of [0, n) in ascending order,
// chosen by a partial Fisher-Yates shuffle seeded with seed. The same
// (n, k, seed) always yields the same sample. When k <= 0 or k >= n every
// index is returned.
func SampleIndices(n, k int, seed uint64) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if k <= 0 || k >= n {
		return perm
	}

	rng := rand.New(rand.NewPCG(seed, seed^seedStream))
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}

	sample := perm[:k:k]
	slices.Sort(sample)
	return sample
}

// SampleNodes returns a deterministic sample of k node ids of g, ascending.
func SampleNodes(g *graph.Graph, k int, seed uint64) []graph.NodeID {
	idx := SampleIndices(g.NodeCount(), k, seed)
	out := make([]graph.NodeID, len(idx))
	for i, v := range idx {
		out[i] = g.NodeAt(v)
	}
	return out
}
