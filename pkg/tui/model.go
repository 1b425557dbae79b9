// Package tui shows the progress of an analysis run in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginBottom(1)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	runningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

type stageState int

const (
	statePending stageState = iota
	stateRunning
	stateDone
)

type stage struct {
	name    string
	state   stageState
	started time.Time
	elapsed time.Duration
	done    int64
	total   int64
}

// progressMsg carries a pipeline event into the event loop.
type progressMsg pipeline.Event

// doneMsg ends the run.
type doneMsg struct {
	report *pipeline.Report
	err    error
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	title      string
	stages     []*stage
	index      map[string]*stage
	spinner    spinner.Model
	bar        progress.Model
	help       help.Model
	keys       keyMap
	cancel     context.CancelFunc
	cancelling bool
	startTime  time.Time
	now        time.Time

	report *pipeline.Report
	err    error
}

func newModel(title string, plan []string, cancel context.CancelFunc) model {
	names := append([]string{pipeline.StageLoad, pipeline.StageBuild}, plan...)
	m := model{
		title:     title,
		index:     make(map[string]*stage, len(names)),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(runningStyle)),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:      help.New(),
		keys:      keys,
		cancel:    cancel,
		startTime: time.Now(),
	}
	m.now = m.startTime
	for _, name := range names {
		s := &stage{name: name}
		m.stages = append(m.stages, s)
		m.index[name] = s
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.bar.Width = min(60, max(10, msg.Width-20))

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.cancelling {
			m.cancelling = true
			m.cancel()
		}

	case progressMsg:
		m.apply(pipeline.Event(msg))

	case doneMsg:
		m.report = msg.report
		m.err = msg.err
		return m, tea.Quit

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) apply(e pipeline.Event) {
	s, ok := m.index[e.Stage]
	if !ok {
		return
	}
	switch {
	case e.Finished:
		if s.state == stateRunning {
			s.elapsed = time.Since(s.started)
		}
		s.state = stateDone
	case s.state == statePending:
		s.state = stateRunning
		s.started = time.Now()
	}
	// counted events from parallel workers may arrive out of order
	if e.Total > 0 && e.Done >= s.done {
		s.done, s.total = e.Done, e.Total
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	for _, s := range m.stages {
		switch s.state {
		case statePending:
			b.WriteString(pendingStyle.Render("  · " + s.name))
		case stateRunning:
			b.WriteString(m.spinner.View())
			b.WriteString(runningStyle.Render(s.name))
			if s.total > 0 {
				b.WriteString("  ")
				b.WriteString(m.bar.ViewAs(float64(s.done) / float64(s.total)))
				b.WriteString(fmt.Sprintf(" %d/%d", s.done, s.total))
			}
		case stateDone:
			b.WriteString(doneStyle.Render(fmt.Sprintf("  ✓ %s (%s)", s.name, s.elapsed.Round(time.Millisecond))))
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nelapsed %s", m.now.Sub(m.startTime).Round(time.Second)))
	if m.cancelling {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("cancelling..."))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	b.WriteString("\n")
	return b.String()
}
