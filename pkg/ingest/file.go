package ingest

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// FileSource reads an edge list from a local file using memory-mapped I/O.
// Files ending in .sz are decoded as snappy framed streams.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return s.path }

// Load maps the file and parses it.
func (s *FileSource) Load(ctx context.Context) ([]graph.Edge, ParseStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, ParseStats{}, err
	}

	reader, err := mmap.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = errors.Join(ErrSourceNotFound, err)
		}
		return nil, ParseStats{}, newSourceError("open", s.path, err)
	}
	defer reader.Close()

	var r io.Reader = io.NewSectionReader(reader, 0, int64(reader.Len()))
	if isCompressed(s.path) {
		r = snappy.NewReader(r)
	}

	edges, stats, err := ParseEdges(r)
	if err != nil {
		return nil, stats, newSourceError("read", s.path, err)
	}
	return edges, stats, nil
}
