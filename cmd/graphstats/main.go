package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-graphstats/pkg/config"
	"github.com/dd0wney/cluso-graphstats/pkg/health"
	"github.com/dd0wney/cluso-graphstats/pkg/ingest"
	"github.com/dd0wney/cluso-graphstats/pkg/logging"
	"github.com/dd0wney/cluso-graphstats/pkg/metrics"
	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
	"github.com/dd0wney/cluso-graphstats/pkg/report"
	"github.com/dd0wney/cluso-graphstats/pkg/server"
	"github.com/dd0wney/cluso-graphstats/pkg/tui"
)

type flags struct {
	configPath  string
	input       string
	format      string
	output      string
	metrics     string
	workers     int
	timeout     time.Duration
	edgeLimit   int
	pathSample  int
	simSample   int
	seed        uint64
	listen      string
	textfile    string
	logLevel    string
	interactive bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{}
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.input, "input", "", "edge list file; \"-\" reads stdin")
	fs.StringVar(&f.format, "format", "", "report format: text or json")
	fs.StringVar(&f.output, "output", "", "write the report to this file instead of stdout")
	fs.StringVar(&f.metrics, "metrics", "", "comma-separated metrics: "+strings.Join(config.AllMetrics, ","))
	fs.IntVar(&f.workers, "workers", 0, "worker goroutines (0 = number of CPUs)")
	fs.DurationVar(&f.timeout, "timeout", 0, "abort the analysis after this long")
	fs.IntVar(&f.edgeLimit, "edge-limit", 0, "analyze a seeded sample of at most this many edges")
	fs.IntVar(&f.pathSample, "path-sample", 0, "BFS from a seeded sample of this many sources")
	fs.IntVar(&f.simSample, "similarity-sample", 0, "compare only pairs among a seeded sample of this many nodes")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for every sample")
	fs.StringVar(&f.listen, "listen", "", "serve the report over HTTP on this address")
	fs.StringVar(&f.textfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&f.interactive, "interactive", false, "show live progress; q cancels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply overrides cfg with the flags that were set explicitly.
func (f *flags) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "input":
			if f.input == "-" {
				cfg.Source.Kind = config.SourceStdin
			} else {
				cfg.Source.Kind = config.SourceFile
				cfg.Source.Path = f.input
			}
		case "format":
			cfg.Output.Format = f.format
		case "output":
			cfg.Output.Path = f.output
		case "metrics":
			cfg.Analysis.Metrics = strings.Split(f.metrics, ",")
		case "workers":
			cfg.Analysis.Workers = f.workers
		case "timeout":
			cfg.Analysis.Timeout = f.timeout
		case "edge-limit":
			cfg.Source.EdgeLimit = f.edgeLimit
		case "path-sample":
			cfg.Analysis.Paths.SampleSize = f.pathSample
		case "similarity-sample":
			cfg.Analysis.Similarity.SampleSize = f.simSample
		case "seed":
			cfg.Source.SampleSeed = f.seed
			cfg.Analysis.Paths.Seed = f.seed
			cfg.Analysis.Similarity.Seed = f.seed
		case "listen":
			cfg.Output.Listen = f.listen
		case "metrics-textfile":
			cfg.Metrics.TextfilePath = f.textfile
			cfg.Metrics.Enabled = true
		case "log-level":
			cfg.Logging.Level = f.logLevel
		case "interactive":
			cfg.Output.Interactive = f.interactive
		}
	})
}

func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("graphstats", flag.ContinueOnError)
	f, err := parseFlags(fs, args)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	f.apply(fs, cfg)
	if env := os.Getenv("LOG_LEVEL"); env != "" && f.logLevel == "" {
		cfg.Logging.Level = strings.ToLower(env)
	}
	return cfg, cfg.Validate()
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "graphstats: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.Logging.Level), logging.Format(cfg.Logging.Format))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("graphstats failed", logging.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// app wires one configuration to its collaborators.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	registry *metrics.Registry
	opts     pipeline.Options
	stdin    io.Reader
}

func newApp(cfg *config.Config, logger logging.Logger, stdin io.Reader) (*app, error) {
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, opts: opts, stdin: stdin}
	if cfg.Metrics.Enabled || cfg.Output.Listen != "" {
		a.registry = metrics.NewRegistry()
	}
	return a, nil
}

// analyze opens the configured source and runs the pipeline once.
func (a *app) analyze(ctx context.Context, progress pipeline.ProgressFunc) (*pipeline.Report, error) {
	src, err := ingest.Open(ctx, a.cfg.Source, a.stdin)
	if err != nil {
		return nil, err
	}
	options := []pipeline.Option{pipeline.WithLogger(a.logger), pipeline.WithProgress(progress)}
	if a.registry != nil {
		options = append(options, pipeline.WithMetrics(a.registry))
	}
	p, err := pipeline.New(a.opts, options...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, src)
}

func (a *app) plan() []string {
	p, err := pipeline.New(a.opts)
	if err != nil {
		return nil
	}
	return p.Plan()
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger, stdin io.Reader, stdout io.Writer) error {
	a, err := newApp(cfg, logger, stdin)
	if err != nil {
		return err
	}

	var rep *pipeline.Report
	if cfg.Output.Interactive {
		rep, err = tui.Run(ctx, tui.Options{
			Title:  "graphstats",
			Plan:   a.plan(),
			Output: os.Stderr,
		}, a.analyze)
	} else {
		rep, err = a.analyze(ctx, nil)
	}
	if err != nil {
		return err
	}

	if err := a.writeReport(rep, stdout); err != nil {
		return err
	}
	if a.registry != nil && cfg.Metrics.TextfilePath != "" {
		if err := a.registry.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
		logger.Info("metrics written", logging.Path(cfg.Metrics.TextfilePath))
	}

	if cfg.Output.Listen == "" {
		return nil
	}
	return a.serve(ctx, rep)
}

func (a *app) writeReport(rep *pipeline.Report, stdout io.Writer) error {
	out := stdout
	if path := a.cfg.Output.Path; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Write(out, a.cfg.Output.Format, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// serve publishes rep until ctx is done. SIGHUP re-runs the analysis and
// swaps the served report when it succeeds.
func (a *app) serve(ctx context.Context, rep *pipeline.Report) error {
	store := server.NewReportStore(0)
	if err := store.Set(rep); err != nil {
		return err
	}

	srv := server.New(store, server.WithLogger(a.logger), server.WithMetrics(a.registry))
	gs := server.NewGracefulServer(a.cfg.Output.Listen, srv.Router(), a.logger)
	srv.Health().RegisterReadinessCheck("shutdown", health.ShutdownCheck(gs.IsShuttingDown))
	gs.SetReloadFunc(func(ctx context.Context) error {
		if a.cfg.Source.Kind == config.SourceStdin {
			return errors.New("stdin source cannot be re-read")
		}
		next, err := a.analyze(ctx, nil)
		if err != nil {
			return err
		}
		return store.Set(next)
	})
	return gs.Run(ctx)
}
