package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// RunFunc starts an analysis that reports through progress and honors ctx.
type RunFunc func(ctx context.Context, progress pipeline.ProgressFunc) (*pipeline.Report, error)

// Options configures the terminal program.
type Options struct {
	Title  string
	Plan   []string
	Input  io.Reader
	Output io.Writer
}

// Run executes run while rendering its progress. Pressing q or ctrl+c
// cancels the run's context; Run then returns the run's error, normally
// wrapping context.Canceled.
func Run(ctx context.Context, opts Options, run RunFunc) (*pipeline.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var programOpts []tea.ProgramOption
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	program := tea.NewProgram(newModel(opts.Title, opts.Plan, cancel), programOpts...)

	go func() {
		report, err := run(ctx, throttle(program.Send))
		program.Send(doneMsg{report: report, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		return nil, err
	}
	m, ok := final.(model)
	if !ok {
		return nil, errors.New("unexpected model type")
	}
	return m.report, m.err
}

// progressSteps bounds the number of counted updates per stage.
const progressSteps = 200

// throttle forwards stage transitions and about progressSteps counted updates
// per stage. The returned func may be called from several goroutines.
func throttle(send func(tea.Msg)) pipeline.ProgressFunc {
	return func(e pipeline.Event) {
		if e.Total > 0 && !e.Finished && e.Done != e.Total {
			step := max(1, e.Total/progressSteps)
			if e.Done%step != 0 {
				return
			}
		}
		send(progressMsg(e))
	}
}
