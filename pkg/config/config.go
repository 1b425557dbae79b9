// Package config loads and validates the YAML configuration of an analysis run.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-graphstats/pkg/algorithms"
	"github.com/dd0wney/cluso-graphstats/pkg/validation"
)

// SourceKind selects where the edge list comes from.
type SourceKind string

const (
	SourceFile     SourceKind = "file"
	SourceStdin    SourceKind = "stdin"
	SourceS3       SourceKind = "s3"
	SourcePostgres SourceKind = "postgres"
)

// Metric names accepted in analysis.metrics.
const (
	MetricDegree        = "degree"
	MetricSimilarity    = "similarity"
	MetricClustering    = "clustering"
	MetricAssortativity = "assortativity"
	MetricPaths         = "paths"
	MetricSmallWorld    = "smallworld"
)

// AllMetrics lists every metric in the order they are computed.
var AllMetrics = []string{
	MetricDegree,
	MetricSimilarity,
	MetricClustering,
	MetricAssortativity,
	MetricPaths,
	MetricSmallWorld,
}

// Config is the root configuration document.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Output   OutputConfig   `yaml:"output"`
}

// SourceConfig describes the edge list source.
type SourceConfig struct {
	Kind       SourceKind `yaml:"kind" validate:"required,oneof=file stdin s3 postgres"`
	Path       string     `yaml:"path" validate:"required_if=Kind file"`
	Compressed bool       `yaml:"compressed"` // snappy framed stdin

	// EdgeLimit keeps a seeded sample of at most this many edges; 0 keeps all.
	EdgeLimit  int    `yaml:"edge_limit" validate:"gte=0"`
	SampleSeed uint64 `yaml:"sample_seed"`

	S3       S3Config       `yaml:"s3"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// S3Config locates an edge list object.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// PostgresConfig configures the database edge source.
type PostgresConfig struct {
	URL   string `yaml:"url"`
	Query string `yaml:"query"`
}

// AnalysisConfig selects and tunes the metrics.
type AnalysisConfig struct {
	Metrics    []string      `yaml:"metrics" validate:"dive,oneof=degree similarity clustering assortativity paths smallworld"`
	Workers    int           `yaml:"workers" validate:"gte=0"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	DegreeBins []int         `yaml:"degree_bins"`

	Similarity    SimilarityConfig    `yaml:"similarity"`
	Paths         PathsConfig         `yaml:"paths"`
	Assortativity AssortativityConfig `yaml:"assortativity"`
}

// SimilarityConfig restricts the pairwise similarity search.
type SimilarityConfig struct {
	SampleSize int      `yaml:"sample_size" validate:"gte=0"`
	Seed       uint64   `yaml:"seed"`
	Nodes      []uint64 `yaml:"nodes"`
}

// PathsConfig bounds the shortest path computation.
type PathsConfig struct {
	SampleSize int    `yaml:"sample_size" validate:"gte=0"`
	Seed       uint64 `yaml:"seed"`
}

// AssortativityConfig picks the degree centering.
type AssortativityConfig struct {
	Centering string `yaml:"centering" validate:"oneof=node-mean endpoint-mean"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// TextfilePath, when set, receives the metrics in text format after a run.
	TextfilePath string `yaml:"textfile_path"`
}

// OutputConfig configures how the report is presented.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`

	// Path writes the report to a file instead of stdout.
	Path string `yaml:"path"`

	// Listen, when set, serves the report over HTTP after the run.
	Listen      string `yaml:"listen" validate:"omitempty,hostname_port"`
	Interactive bool   `yaml:"interactive"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Kind: SourceStdin},
		Analysis: AnalysisConfig{
			Metrics:       slices.Clone(AllMetrics),
			DegreeBins:    []int{10, 25},
			Assortativity: AssortativityConfig{Centering: "node-mean"},
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the rules that span fields.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config")
	cv.Struct(c)

	cv.When(c.Source.Kind == SourceS3, func(v *validation.ConfigValidator) {
		v.Required("source.s3.bucket", c.Source.S3.Bucket).
			Required("source.s3.key", c.Source.S3.Key)
	})
	cv.When(c.Source.Kind == SourcePostgres, func(v *validation.ConfigValidator) {
		v.Required("source.postgres.url", c.Source.Postgres.URL)
	})
	cv.Custom("analysis.degree_bins", func() error {
		return algorithms.ValidateBins(c.Analysis.DegreeBins)
	})
	cv.When(c.Output.Interactive && c.Output.Listen != "", func(v *validation.ConfigValidator) {
		v.Custom("output", func() error {
			return errors.New("interactive and listen are mutually exclusive")
		})
	})

	return cv.Validate()
}

// HasMetric reports whether name is selected.
func (a AnalysisConfig) HasMetric(name string) bool {
	return slices.Contains(a.Metrics, name)
}
