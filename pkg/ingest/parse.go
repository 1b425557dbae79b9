package ingest

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// MaxLineLength bounds a single input line.
const MaxLineLength = 16 << 20

// ParseStats counts what ParseEdges saw.
type ParseStats struct {
	Lines   int `json:"lines"`
	Edges   int `json:"edges"`
	Skipped int `json:"skipped"` // lines with fewer than two node ids
}

// Add accumulates o into s.
func (s *ParseStats) Add(o ParseStats) {
	s.Lines += o.Lines
	s.Edges += o.Edges
	s.Skipped += o.Skipped
}

// parseNodeID accepts a non-negative decimal integer with an optional
// leading '+'.
func parseNodeID(tok string) (graph.NodeID, bool) {
	if len(tok) > 1 && tok[0] == '+' {
		tok = tok[1:]
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return graph.NodeID(v), true
}

// ParseLine returns the edge formed by the first two whitespace-separated
// tokens of line that parse as node ids. Other tokens are ignored.
func ParseLine(line string) (graph.Edge, bool) {
	var ids [2]graph.NodeID
	n := 0
	for _, tok := range strings.Fields(line) {
		id, ok := parseNodeID(tok)
		if !ok {
			continue
		}
		ids[n] = id
		n++
		if n == 2 {
			return graph.Edge{U: ids[0], V: ids[1]}, true
		}
	}
	return graph.Edge{}, false
}

// ParseEdges reads a whitespace-separated edge list. Lines with fewer than
// two parseable node ids are skipped and counted. Self-loops are returned as
// read; the graph builder decides what to do with them.
func ParseEdges(r io.Reader) ([]graph.Edge, ParseStats, error) {
	var (
		stats ParseStats
		edges []graph.Edge
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for scanner.Scan() {
		stats.Lines++
		e, ok := ParseLine(scanner.Text())
		if !ok {
			stats.Skipped++
			continue
		}
		edges = append(edges, e)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = ErrLineTooLong
		}
		return nil, stats, err
	}

	stats.Edges = len(edges)
	return edges, stats, nil
}
