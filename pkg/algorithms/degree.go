package algorithms

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/btree"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// ErrInvalidBins is returned when degree bin bounds are negative or not
// strictly ascending.
var ErrInvalidBins = errors.New("degree bin bounds must be non-negative and strictly ascending")

// DefaultDegreeBins splits degrees into <=10, 11-25 and >25.
var DefaultDegreeBins = []int{10, 25}

// DegreeHistogram maps a degree to the number of nodes having it.
// Iteration is always in ascending degree order.
type DegreeHistogram struct {
	counts btree.Map[int, int]
	nodes  int
}

// DegreeBucket is one histogram entry.
type DegreeBucket struct {
	Degree int `json:"degree"`
	Count  int `json:"count"`
}

// DegreeDistribution histograms the node degrees of g.
func DegreeDistribution(g *graph.Graph) *DegreeHistogram {
	h := &DegreeHistogram{}
	for i := 0; i < g.NodeCount(); i++ {
		d := g.DegreeAt(i)
		c, _ := h.counts.Get(d)
		h.counts.Set(d, c+1)
		h.nodes++
	}
	return h
}

// Count returns the number of nodes with the given degree.
func (h *DegreeHistogram) Count(degree int) int {
	c, _ := h.counts.Get(degree)
	return c
}

// Total returns the number of nodes counted, which equals the node count of
// the graph the histogram was built from.
func (h *DegreeHistogram) Total() int {
	return h.nodes
}

// Len returns the number of distinct degrees.
func (h *DegreeHistogram) Len() int {
	return h.counts.Len()
}

// MaxDegree returns the largest degree present, or 0 for an empty histogram.
func (h *DegreeHistogram) MaxDegree() int {
	d, _, ok := h.counts.Max()
	if !ok {
		return 0
	}
	return d
}

// Each calls fn for every (degree, count) in ascending degree order until fn
// returns false.
func (h *DegreeHistogram) Each(fn func(degree, count int) bool) {
	h.counts.Scan(fn)
}

// Buckets returns the histogram entries in ascending degree order.
func (h *DegreeHistogram) Buckets() []DegreeBucket {
	out := make([]DegreeBucket, 0, h.counts.Len())
	h.counts.Scan(func(d, c int) bool {
		out = append(out, DegreeBucket{Degree: d, Count: c})
		return true
	})
	return out
}

// Degrees returns the distinct degrees in ascending order.
func (h *DegreeHistogram) Degrees() []int {
	return h.counts.Keys()
}

// MarshalJSON encodes the histogram as an ascending list of buckets.
func (h *DegreeHistogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Buckets())
}

// DegreeBin is a contiguous degree range with the number of nodes inside it.
// Max is meaningless when Unbounded is set.
type DegreeBin struct {
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	Unbounded bool `json:"unbounded"`
	Count     int  `json:"count"`
}

// Label renders the range, e.g. "<=10", "11-25" or ">25".
func (b DegreeBin) Label() string {
	switch {
	case b.Unbounded && b.Min == 0:
		return ">=0"
	case b.Unbounded:
		return fmt.Sprintf(">%d", b.Min-1)
	case b.Min == 0:
		return fmt.Sprintf("<=%d", b.Max)
	case b.Min == b.Max:
		return fmt.Sprintf("%d", b.Min)
	default:
		return fmt.Sprintf("%d-%d", b.Min, b.Max)
	}
}

// ValidateBins checks that bounds are usable by Bin.
func ValidateBins(bounds []int) error {
	for i, b := range bounds {
		if b < 0 {
			return fmt.Errorf("%w: bound %d is negative", ErrInvalidBins, b)
		}
		if i > 0 && b <= bounds[i-1] {
			return fmt.Errorf("%w: bound %d follows %d", ErrInvalidBins, b, bounds[i-1])
		}
	}
	return nil
}

// Bin sums histogram counts into len(bounds)+1 bins. Each bound is the
// inclusive upper limit of its bin; the last bin is unbounded. With no
// bounds, a single bin holds every node.
func (h *DegreeHistogram) Bin(bounds []int) ([]DegreeBin, error) {
	if err := ValidateBins(bounds); err != nil {
		return nil, err
	}

	bins := make([]DegreeBin, len(bounds)+1)
	lo := 0
	for i, b := range bounds {
		bins[i] = DegreeBin{Min: lo, Max: b}
		lo = b + 1
	}
	bins[len(bounds)] = DegreeBin{Min: lo, Unbounded: true}

	h.counts.Scan(func(d, c int) bool {
		// first bound >= d; len(bounds) selects the unbounded bin
		bins[sort.SearchInts(bounds, d)].Count += c
		return true
	})
	return bins, nil
}
