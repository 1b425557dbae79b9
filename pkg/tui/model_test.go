package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-graphstats/pkg/config"
	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

func newTestModel(cancel context.CancelFunc) model {
	if cancel == nil {
		cancel = func() {}
	}
	return newModel("test", []string{config.MetricClustering, config.MetricPaths}, cancel)
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModel_Stages(t *testing.T) {
	m := newTestModel(nil)

	want := []string{pipeline.StageLoad, pipeline.StageBuild, config.MetricClustering, config.MetricPaths}
	if len(m.stages) != len(want) {
		t.Fatalf("got %d stages, want %d", len(m.stages), len(want))
	}
	for i, s := range m.stages {
		if s.name != want[i] {
			t.Errorf("stage %d = %s, want %s", i, s.name, want[i])
		}
		if s.state != statePending {
			t.Errorf("stage %s should start pending", s.name)
		}
	}
}

func TestModel_Progress(t *testing.T) {
	m := newTestModel(nil)

	m, _ = update(t, m, progressMsg{Stage: pipeline.StageLoad})
	if m.index[pipeline.StageLoad].state != stateRunning {
		t.Error("load should be running")
	}

	m, _ = update(t, m, progressMsg{Stage: pipeline.StageLoad, Finished: true})
	if m.index[pipeline.StageLoad].state != stateDone {
		t.Error("load should be done")
	}

	m, _ = update(t, m, progressMsg{Stage: config.MetricPaths, Done: 5, Total: 10})
	m, _ = update(t, m, progressMsg{Stage: config.MetricPaths, Done: 3, Total: 10})
	paths := m.index[config.MetricPaths]
	if paths.state != stateRunning || paths.done != 5 || paths.total != 10 {
		t.Errorf("paths = %+v, want running 5/10", *paths)
	}

	view := m.View()
	if !strings.Contains(view, "5/10") {
		t.Errorf("view missing path progress:\n%s", view)
	}
	if !strings.Contains(view, "✓ load") {
		t.Errorf("view missing finished load stage:\n%s", view)
	}

	// unknown stages are ignored
	m, _ = update(t, m, progressMsg{Stage: "pagerank"})
	if _, ok := m.index["pagerank"]; ok {
		t.Error("unknown stage should not be added")
	}
}

func TestModel_QuitCancels(t *testing.T) {
	calls := 0
	m := newTestModel(func() { calls++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if calls != 1 {
		t.Fatalf("cancel called %d times, want 1", calls)
	}
	if cmd != nil {
		t.Error("quit key should wait for the run to stop")
	}
	if !m.cancelling || !strings.Contains(m.View(), "cancelling") {
		t.Error("model should show cancellation")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if calls != 1 {
		t.Errorf("second quit called cancel again")
	}

	_, cmd = update(t, m, doneMsg{err: context.Canceled})
	if cmd == nil {
		t.Fatal("done should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done should return tea.Quit")
	}
}

func TestModel_DoneKeepsResult(t *testing.T) {
	m := newTestModel(nil)
	report := &pipeline.Report{RunID: "run-1"}
	boom := errors.New("boom")

	m, _ = update(t, m, doneMsg{report: report, err: boom})
	if m.report != report || !errors.Is(m.err, boom) {
		t.Errorf("model did not keep result: %v %v", m.report, m.err)
	}
}

func TestThrottle(t *testing.T) {
	var got []pipeline.Event
	fn := throttle(func(msg tea.Msg) {
		got = append(got, pipeline.Event(msg.(progressMsg)))
	})

	fn(pipeline.Event{Stage: "paths"})
	for i := int64(1); i <= 1000; i++ {
		fn(pipeline.Event{Stage: "paths", Done: i, Total: 1000})
	}
	fn(pipeline.Event{Stage: "paths", Finished: true})

	// start, every 5th of 1000, finish
	if len(got) != 1+200+1 {
		t.Errorf("forwarded %d events, want 202", len(got))
	}
	if last := got[len(got)-2]; last.Done != 1000 {
		t.Errorf("last counted event = %d, want 1000", last.Done)
	}
}
