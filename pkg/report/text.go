// Package report renders an analysis report for people and machines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// styles are bound to one output so color is only emitted to terminals.
type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	note    lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")),
		section: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginTop(1),
		label: r.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(24),
		value: r.NewStyle().
			Foreground(lipgloss.Color("#00FF00")),
		note: r.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#888888")),
		warn: r.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")),
	}
}

// textWriter buffers the rendered report so it reaches w in one write.
type textWriter struct {
	s styles
	b strings.Builder
}

func (t *textWriter) title(s string) {
	t.b.WriteString(t.s.title.Render(s))
	t.b.WriteByte('\n')
}

func (t *textWriter) section(s string) {
	t.b.WriteString(t.s.section.Render(s))
	t.b.WriteByte('\n')
}

func (t *textWriter) row(label, format string, args ...any) {
	t.b.WriteString("  ")
	t.b.WriteString(t.s.label.Render(label))
	t.b.WriteString(t.s.value.Render(fmt.Sprintf(format, args...)))
	t.b.WriteByte('\n')
}

func (t *textWriter) note(s string) {
	t.b.WriteString("  ")
	t.b.WriteString(t.s.note.Render(s))
	t.b.WriteByte('\n')
}

func (t *textWriter) warn(s string) {
	t.b.WriteString("  ")
	t.b.WriteString(t.s.warn.Render(s))
	t.b.WriteByte('\n')
}

// WriteText writes a human-readable rendering of r. Sections for metrics
// that were not computed are omitted.
func WriteText(w io.Writer, r *pipeline.Report) error {
	t := &textWriter{s: newStyles(w)}

	t.title(fmt.Sprintf("Graph analysis of %s", r.Source))
	t.row("run", "%s", r.RunID)
	t.row("duration", "%s", r.Duration.Round(time.Millisecond))

	writeInput(t, r)
	if r.Degree != nil {
		writeDegree(t, r.Degree)
	}
	if r.Similarity != nil {
		writeSimilarity(t, r.Similarity)
	}
	if r.Clustering != nil {
		t.section("Clustering")
		t.row("global coefficient", "%.6f", r.Clustering.Coefficient)
		t.row("closed triplets", "%d of %d", r.Clustering.ClosedTriplets, r.Clustering.PossibleTriplets)
		t.row("triangles", "%d", r.Clustering.Triangles)
	}
	if r.Assortativity != nil {
		t.section("Degree assortativity")
		t.row("coefficient", "%s", r.Assortativity.Coefficient)
		t.row("centering", "%s", r.Assortativity.Centering)
		if !r.Assortativity.Coefficient.IsDefined() {
			t.note("every endpoint has the same degree")
		}
	}
	if r.Paths != nil {
		writePaths(t, r.Paths)
	}
	if r.SmallWorld != nil {
		writeSmallWorld(t, r.SmallWorld)
	}
	if len(r.Timings) > 0 {
		t.section("Timings")
		for _, m := range r.Timings {
			t.row(m.Metric, "%s", m.Duration.Round(time.Microsecond))
		}
	}

	_, err := io.WriteString(w, t.b.String())
	return err
}

func writeInput(t *textWriter, r *pipeline.Report) {
	t.section("Input")
	t.row("lines read", "%d", r.Ingest.Lines)
	t.row("edges parsed", "%d", r.Ingest.Edges)
	if r.Ingest.Skipped > 0 {
		t.row("lines skipped", "%d", r.Ingest.Skipped)
	}
	if r.Ingest.Sampled {
		t.warn(fmt.Sprintf("sampled %d of %d edges", r.Ingest.EdgesUsed, r.Ingest.Edges))
	}
	t.row("nodes", "%d", r.Graph.Nodes)
	t.row("edges", "%d", r.Graph.Edges)
	t.row("mean degree", "%.4f", r.Graph.MeanDegree)
	if r.Graph.SelfLoopsDropped > 0 || r.Graph.DuplicatesDropped > 0 {
		t.note(fmt.Sprintf("dropped %d self-loops and %d duplicate edges",
			r.Graph.SelfLoopsDropped, r.Graph.DuplicatesDropped))
	}
}

func writeDegree(t *textWriter, d *pipeline.DegreeReport) {
	t.section("Degree distribution")
	for _, b := range d.Bins {
		t.row("degree "+b.Label(), "%d nodes", b.Count)
	}
	if d.Histogram.Len() > 0 {
		t.row("max degree", "%d", d.Histogram.MaxDegree())
	}
}

func writeSimilarity(t *textWriter, s *algorithms.SimilarityResult) {
	t.section("Neighborhood similarity (Jaccard)")
	if s.Restricted {
		t.note(fmt.Sprintf("restricted to %d candidate nodes", s.Candidates))
	}
	t.row("pairs compared", "%d", s.PairsCompared)

	if s.Most == nil {
		t.note("no pair has a defined similarity")
		return
	}
	t.row("most similar", "(%d, %d) %.6f", s.Most.A, s.Most.B, s.Most.Score)
	if s.Most.Score == 1 {
		t.note(fmt.Sprintf("nodes %d and %d have the same neighbors", s.Most.A, s.Most.B))
	}
	t.row("least similar", "(%d, %d) %.6f", s.Least.A, s.Least.B, s.Least.Score)
	if s.Least.Score == 0 {
		t.note(fmt.Sprintf("nodes %d and %d have no neighbors in common", s.Least.A, s.Least.B))
	}
}

func writePaths(t *textWriter, p *algorithms.PathLengthResult) {
	t.section("Shortest paths")
	t.row("average length", "%.6f", p.Average)
	mode := "exact"
	if !p.Exact {
		mode = "sampled"
	}
	t.row("sources", "%d (%s)", p.Sources, mode)
	t.row("reachable pairs", "%d", p.Pairs)
	if p.Exact {
		t.row("diameter", "%d", p.Diameter)
	} else {
		t.row("diameter", ">= %d", p.Diameter)
	}
}

func writeSmallWorld(t *textWriter, a *algorithms.SmallWorldAssessment) {
	t.section("Small world")
	t.row("random clustering", "%s", a.RandomClustering)
	t.row("random path length", "%s", a.RandomPath)
	t.row("sigma", "%s", a.Sigma)

	switch a.Interconnection {
	case algorithms.InterconnectionHigh:
		t.note("most reachable nodes are direct neighbors; the graph is highly interconnected")
	case algorithms.InterconnectionLow:
		t.note("paths typically pass through intermediaries; the graph is not tightly interconnected")
	default:
		t.note("every reachable pair is exactly one hop apart")
	}
	if a.SmallWorld {
		t.note("clustering is high relative to path length: consistent with a small world")
	}
}
