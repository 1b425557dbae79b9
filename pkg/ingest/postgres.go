package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-graphstats/pkg/graph"
)

// DefaultEdgeQuery selects the edge list when no query is configured.
const DefaultEdgeQuery = "SELECT source, target FROM edges"

// PostgresSource reads edges from a query returning two integer columns.
// Rows with a NULL or negative id are skipped like unparseable lines.
type PostgresSource struct {
	url   string
	query string
}

// NewPostgresSource creates a source for the database at url. An empty
// query means DefaultEdgeQuery.
func NewPostgresSource(url, query string) *PostgresSource {
	if query == "" {
		query = DefaultEdgeQuery
	}
	return &PostgresSource{url: url, query: query}
}

func (s *PostgresSource) Name() string { return "postgres" }

// Load connects, runs the query and closes the pool.
func (s *PostgresSource) Load(ctx context.Context) ([]graph.Edge, ParseStats, error) {
	config, err := pgxpool.ParseConfig(s.url)
	if err != nil {
		return nil, ParseStats{}, newSourceError("connect", s.Name(), fmt.Errorf("failed to parse database URL: %w", err))
	}
	config.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, ParseStats{}, newSourceError("connect", s.Name(), err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, s.query)
	if err != nil {
		return nil, ParseStats{}, newSourceError("query", s.Name(), err)
	}
	defer rows.Close()

	edges, stats, err := collectEdges(rows)
	if err != nil {
		return nil, stats, newSourceError("scan", s.Name(), err)
	}
	return edges, stats, nil
}

// edgeRows is the subset of pgx.Rows used to read edges.
type edgeRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectEdges(rows edgeRows) ([]graph.Edge, ParseStats, error) {
	var (
		stats ParseStats
		edges []graph.Edge
	)
	for rows.Next() {
		stats.Lines++
		var u, v *int64
		if err := rows.Scan(&u, &v); err != nil {
			return nil, stats, err
		}
		if u == nil || v == nil || *u < 0 || *v < 0 {
			stats.Skipped++
			continue
		}
		edges = append(edges, graph.Edge{U: graph.NodeID(*u), V: graph.NodeID(*v)})
	}
	if err := rows.Err(); err != nil {
		return nil, stats, err
	}
	stats.Edges = len(edges)
	return edges, stats, nil
}
