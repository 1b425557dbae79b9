package algorithms

import (
	"context"
	"slices"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
	"github.com/dd0wney/cluso-graphstats/pkg/parallel"
)

// ScoredPair is a pair of distinct nodes with their Jaccard similarity.
// A is always the smaller id.
type ScoredPair struct {
	A     graph.NodeID `json:"a"`
	B     graph.NodeID `json:"b"`
	Score float64      `json:"score"`
}

// SimilarityOptions restricts and parallelizes the similarity search.
type SimilarityOptions struct {
	// Nodes limits comparisons to pairs drawn from this set. Ids that are not
	// in the graph are ignored. Nil means every node.
	Nodes []graph.NodeID
	// SampleSize, when positive and Nodes is nil, limits comparisons to a
	// deterministic sample of this many nodes chosen with Seed.
	SampleSize int
	Seed       uint64
	// Workers is the number of goroutines; <= 0 means runtime.NumCPU().
	Workers int
}

// SimilarityResult holds both similarity extremes of one search.
// A nil Most or Least means no pair had a defined score.
type SimilarityResult struct {
	Most  *ScoredPair `json:"most_similar"`
	Least *ScoredPair `json:"least_similar"`

	Candidates     int   `json:"candidates"`      // nodes taking part in the search
	Restricted     bool  `json:"restricted"`      // true when Candidates < node count
	PairsCompared  int64 `json:"pairs_compared"`  // unordered pairs evaluated
	UndefinedPairs int64 `json:"undefined_pairs"` // pairs with an empty neighbor union
}

// JaccardSimilarity returns |N(u) ∩ N(v)| / |N(u) ∪ N(v)|. Unknown nodes have
// an empty neighbor set; the score is Undefined when the union is empty.
func JaccardSimilarity(g *graph.Graph, u, v graph.NodeID) Value {
	i, okU := g.IndexOf(u)
	j, okV := g.IndexOf(v)

	switch {
	case okU && okV:
		if s, ok := jaccardAt(g, i, j); ok {
			return Defined(s)
		}
		return Undefined
	case okU && g.DegreeAt(i) > 0, okV && g.DegreeAt(j) > 0:
		return Defined(0)
	default:
		return Undefined
	}
}

// jaccardAt computes the Jaccard score of the nodes at dense indices i and j
// by merging their sorted adjacency lists in O(deg(i)+deg(j)).
func jaccardAt(g *graph.Graph, i, j int) (float64, bool) {
	a, b := g.NeighborIndices(i), g.NeighborIndices(j)
	if len(a) == 0 && len(b) == 0 {
		return 0, false
	}

	inter := 0
	for x, y := 0, 0; x < len(a) && y < len(b); {
		switch {
		case a[x] == b[y]:
			inter++
			x++
			y++
		case a[x] < b[y]:
			x++
		default:
			y++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union), true
}

// moreSimilar orders pairs for the maximum search: higher score first, ties
// broken by the lexicographically smaller (A, B).
func moreSimilar(p, q *ScoredPair) bool {
	if p.Score != q.Score {
		return p.Score > q.Score
	}
	return pairLess(p, q)
}

// lessSimilar orders pairs for the minimum search: lower score first, ties
// broken by the lexicographically smaller (A, B).
func lessSimilar(p, q *ScoredPair) bool {
	if p.Score != q.Score {
		return p.Score < q.Score
	}
	return pairLess(p, q)
}

func pairLess(p, q *ScoredPair) bool {
	if p.A != q.A {
		return p.A < q.A
	}
	return p.B < q.B
}

// extremes is the per-chunk partial result of the similarity search.
type extremes struct {
	most, least         *ScoredPair
	compared, undefined int64
}

func (e *extremes) offer(p ScoredPair) {
	if e.most == nil || moreSimilar(&p, e.most) {
		cp := p
		e.most = &cp
	}
	if e.least == nil || lessSimilar(&p, e.least) {
		cp := p
		e.least = &cp
	}
}

// merge folds o into e. The comparators are total orders, so the result does
// not depend on how pairs were partitioned or in which order chunks finished.
func (e *extremes) merge(o extremes) {
	e.compared += o.compared
	e.undefined += o.undefined
	if o.most != nil && (e.most == nil || moreSimilar(o.most, e.most)) {
		e.most = o.most
	}
	if o.least != nil && (e.least == nil || lessSimilar(o.least, e.least)) {
		e.least = o.least
	}
}

// candidateIndices resolves the options into ascending dense indices.
func candidateIndices(g *graph.Graph, opts SimilarityOptions) []int {
	if opts.Nodes != nil {
		seen := make(map[int]struct{}, len(opts.Nodes))
		out := make([]int, 0, len(opts.Nodes))
		for _, id := range opts.Nodes {
			i, ok := g.IndexOf(id)
			if !ok {
				continue
			}
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
		slices.Sort(out)
		return out
	}
	return SampleIndices(g.NodeCount(), opts.SampleSize, opts.Seed)
}

// SimilarityExtremes evaluates the Jaccard similarity of every unordered pair
// of candidate nodes and returns the most and least similar pairs. Jaccard is
// symmetric, so this covers every ordered pair (u, v) as well.
//
// Pairs whose neighbor union is empty are undefined and skipped; if every
// pair is undefined both extremes are nil. The search is O(V²) pairs at
// O(deg(u)+deg(v)) each; restrict it with Nodes or SampleSize on large graphs.
func SimilarityExtremes(ctx context.Context, g *graph.Graph, opts SimilarityOptions) (*SimilarityResult, error) {
	cand := candidateIndices(g, opts)
	result := &SimilarityResult{
		Candidates: len(cand),
		Restricted: len(cand) < g.NodeCount(),
	}
	if len(cand) < 2 {
		return result, ctx.Err()
	}

	// The last row has no pairs to its right.
	chunks := parallel.Plan(opts.Workers, len(cand)-1)
	partials := make([]extremes, len(chunks))

	err := parallel.RunChunks(ctx, opts.Workers, chunks, func(ctx context.Context, c parallel.Chunk) error {
		part := &partials[c.Index]
		for p := c.Lo; p < c.Hi; p++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			i := cand[p]
			a := g.NodeAt(i)
			for _, j := range cand[p+1:] {
				part.compared++
				score, ok := jaccardAt(g, i, j)
				if !ok {
					part.undefined++
					continue
				}
				part.offer(ScoredPair{A: a, B: g.NodeAt(j), Score: score})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var total extremes
	for _, p := range partials {
		total.merge(p)
	}
	result.Most = total.most
	result.Least = total.least
	result.PairsCompared = total.compared
	result.UndefinedPairs = total.undefined
	return result, nil
}

// MostSimilarPair returns the pair with the highest Jaccard similarity, or
// nil when no pair has a defined score.
func MostSimilarPair(ctx context.Context, g *graph.Graph, opts SimilarityOptions) (*ScoredPair, error) {
	res, err := SimilarityExtremes(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return res.Most, nil
}

// MostDissimilarPair returns the pair with the lowest Jaccard similarity, or
// nil when no pair has a defined score.
func MostDissimilarPair(ctx context.Context, g *graph.Graph, opts SimilarityOptions) (*ScoredPair, error) {
	res, err := SimilarityExtremes(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return res.Least, nil
}
