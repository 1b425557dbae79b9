package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-graphstats/pkg/config"
	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// Source supplies the edge list of one analysis run.
type Source interface {
	// Name identifies the source in logs, metrics and reports.
	Name() string
	// Load reads every edge. Implementations do not retry.
	Load(ctx context.Context) ([]graph.Edge, ParseStats, error)
}

// ReaderSource parses edges from an arbitrary reader, such as stdin.
type ReaderSource struct {
	name string
	r    io.Reader
}

// NewReaderSource wraps r. When compressed is set the stream is read as
// snappy framed data.
func NewReaderSource(name string, r io.Reader, compressed bool) *ReaderSource {
	if compressed {
		r = snappy.NewReader(r)
	}
	return &ReaderSource{name: name, r: r}
}

func (s *ReaderSource) Name() string { return s.name }

// Load parses the reader. It can only be called once per reader.
func (s *ReaderSource) Load(ctx context.Context) ([]graph.Edge, ParseStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, ParseStats{}, err
	}
	edges, stats, err := ParseEdges(s.r)
	if err != nil {
		return nil, stats, newSourceError("read", s.name, err)
	}
	return edges, stats, nil
}

// isCompressed reports whether a path or object key names snappy framed data.
func isCompressed(name string) bool {
	return strings.HasSuffix(name, ".sz")
}

// Open builds the Source described by cfg.
func Open(ctx context.Context, cfg config.SourceConfig, stdin io.Reader) (Source, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourceStdin:
		return NewReaderSource("stdin", stdin, cfg.Compressed), nil
	case config.SourceS3:
		src, err := NewS3Source(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourcePostgres:
		return NewPostgresSource(cfg.Postgres.URL, cfg.Postgres.Query), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, cfg.Kind)
	}
}
