package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
	"github.com/dd0wney/cluso-graphstats/pkg/parallel"
)

// PathOptions configures AverageShortestPathLength.
type PathOptions struct {
	// SampleSize, when positive and below the node count, runs BFS from a
	// deterministic sample of that many source nodes instead of every node.
	SampleSize int
	Seed       uint64
	// Workers is the number of goroutines; <= 0 means runtime.NumCPU().
	Workers int
	// OnSource, if set, is called after each source finishes. It may be called
	// concurrently from several workers.
	OnSource func()
}

// PathLengthResult is the average shortest path length and its inputs.
type PathLengthResult struct {
	Average       float64 `json:"average"`
	TotalDistance int64   `json:"total_distance"`
	Pairs         int64   `json:"pairs"`   // reachable ordered (s, t) pairs, s != t
	Sources       int     `json:"sources"` // BFS roots used
	Exact         bool    `json:"exact"`
	// Diameter is the longest shortest path seen. When the result is sampled
	// it is a lower bound on the true diameter.
	Diameter int `json:"diameter"`
}

// bfsState holds the buffers one worker reuses across sources.
type bfsState struct {
	dist  []int32
	queue []int
}

func newBFSState(n int) *bfsState {
	s := &bfsState{dist: make([]int32, n), queue: make([]int, 0, n)}
	for i := range s.dist {
		s.dist[i] = -1
	}
	return s
}

// run does a unit-weight BFS from src and returns the sum of distances to
// every reachable node except src, the number of such nodes and the largest
// distance. dist is reset to -1 for every visited node before returning.
func (s *bfsState) run(g *graph.Graph, src int) (sum int64, reached int64, far int) {
	s.queue = append(s.queue[:0], src)
	s.dist[src] = 0
	for head := 0; head < len(s.queue); head++ {
		u := s.queue[head]
		du := s.dist[u]
		for _, v := range g.NeighborIndices(u) {
			if s.dist[v] >= 0 {
				continue
			}
			s.dist[v] = du + 1
			s.queue = append(s.queue, v)
			sum += int64(du + 1)
			if int(du+1) > far {
				far = int(du + 1)
			}
		}
	}
	reached = int64(len(s.queue) - 1)
	for _, u := range s.queue {
		s.dist[u] = -1
	}
	return sum, reached, far
}

// AverageShortestPathLength averages the unit-weight shortest path length
// over all ordered pairs (s, t), s != t, where t is reachable from s.
// Unreachable pairs are left out of both the distance sum and the pair
// count. A graph without any reachable pair yields 0.
//
// One BFS per source costs O(V+E), so the exact result is O(V(V+E)). Set
// SampleSize to bound the number of sources; Exact reports which was done.
func AverageShortestPathLength(ctx context.Context, g *graph.Graph, opts PathOptions) (*PathLengthResult, error) {
	n := g.NodeCount()
	sources := SampleIndices(n, opts.SampleSize, opts.Seed)
	result := &PathLengthResult{
		Sources: len(sources),
		Exact:   len(sources) == n,
	}
	if len(sources) == 0 {
		return result, ctx.Err()
	}

	type partial struct {
		sum, pairs int64
		far        int
	}

	chunks := parallel.Plan(opts.Workers, len(sources))
	partials := make([]partial, len(chunks))

	err := parallel.RunChunks(ctx, opts.Workers, chunks, func(ctx context.Context, c parallel.Chunk) error {
		part := &partials[c.Index]
		state := newBFSState(n)
		for _, src := range sources[c.Lo:c.Hi] {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, reached, far := state.run(g, src)
			part.sum += sum
			part.pairs += reached
			if far > part.far {
				part.far = far
			}
			if opts.OnSource != nil {
				opts.OnSource()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range partials {
		result.TotalDistance += p.sum
		result.Pairs += p.pairs
		if p.far > result.Diameter {
			result.Diameter = p.far
		}
	}
	if result.Pairs > 0 {
		result.Average = float64(result.TotalDistance) / float64(result.Pairs)
	}
	return result, nil
}

// SingleSourceDistances returns the hop distance from source to every node
// reachable from it, source included at distance 0. The second return value
// is false when source is not in the graph.
func SingleSourceDistances(g *graph.Graph, source graph.NodeID) (map[graph.NodeID]int, bool) {
	src, ok := g.IndexOf(source)
	if !ok {
		return nil, false
	}
	state := newBFSState(g.NodeCount())
	state.queue = append(state.queue[:0], src)
	state.dist[src] = 0
	for head := 0; head < len(state.queue); head++ {
		u := state.queue[head]
		for _, v := range g.NeighborIndices(u) {
			if state.dist[v] < 0 {
				state.dist[v] = state.dist[u] + 1
				state.queue = append(state.queue, v)
			}
		}
	}
	out := make(map[graph.NodeID]int, len(state.queue))
	for _, u := range state.queue {
		out[g.NodeAt(u)] = int(state.dist[u])
	}
	return out, true
}
