package server

import (
	"sync"
	"time"

	"github.com/dd0wney/cluso-graphstats/pkg/graphql"
	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// ReportStore holds the report being served and the GraphQL handler built
// for it. Set replaces both atomically, so a reload never serves a schema
// for a different report.
type ReportStore struct {
	mu       sync.RWMutex
	report   *pipeline.Report
	graphql  *graphql.GraphQLHandler
	maxDepth int
}

// NewReportStore creates an empty store. maxDepth bounds GraphQL queries.
func NewReportStore(maxDepth int) *ReportStore {
	return &ReportStore{maxDepth: maxDepth}
}

// Set publishes r.
func (s *ReportStore) Set(r *pipeline.Report) error {
	schema, err := graphql.NewSchema(r)
	if err != nil {
		return err
	}
	h := graphql.NewGraphQLHandler(schema, s.maxDepth)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
	s.graphql = h
	return nil
}

// Report returns the published report, or nil before the first Set.
func (s *ReportStore) Report() *pipeline.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// current reports the published run for the readiness probe.
func (s *ReportStore) current() (string, time.Time) {
	r := s.Report()
	if r == nil {
		return "", time.Time{}
	}
	return r.RunID, r.StartedAt.Add(r.Duration)
}

func (s *ReportStore) graphQLHandler() *graphql.GraphQLHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphql
}
