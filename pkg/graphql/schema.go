// Package graphql exposes a finished analysis report through a read-only
// GraphQL schema.
package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-graphstats/pkg/pipeline"
)

// section returns nil for a metric that was not computed so the field
// resolves to null instead of an empty object.
func section[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

func newReportType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Report",
		Fields: graphql.Fields{
			"runId":         {Type: graphql.String, Resolve: from(func(r *pipeline.Report) any { return r.RunID })},
			"source":        {Type: graphql.String, Resolve: from(func(r *pipeline.Report) any { return r.Source })},
			"startedAt":     {Type: graphql.String, Resolve: from(func(r *pipeline.Report) any { return r.StartedAt.Format(time.RFC3339Nano) })},
			"durationMs":    {Type: graphql.Float, Resolve: from(func(r *pipeline.Report) any { return float64(r.Duration.Microseconds()) / 1000 })},
			"ingest":        {Type: ingestType, Resolve: from(func(r *pipeline.Report) any { return &r.Ingest })},
			"graph":         {Type: graphSummaryType, Resolve: from(func(r *pipeline.Report) any { return &r.Graph })},
			"degree":        {Type: degreeType, Resolve: from(func(r *pipeline.Report) any { return section(r.Degree) })},
			"similarity":    {Type: similarityType, Resolve: from(func(r *pipeline.Report) any { return section(r.Similarity) })},
			"clustering":    {Type: clusteringType, Resolve: from(func(r *pipeline.Report) any { return section(r.Clustering) })},
			"assortativity": {Type: assortativityType, Resolve: from(func(r *pipeline.Report) any { return section(r.Assortativity) })},
			"paths":         {Type: pathsType, Resolve: from(func(r *pipeline.Report) any { return section(r.Paths) })},
			"smallWorld":    {Type: smallWorldType, Resolve: from(func(r *pipeline.Report) any { return section(r.SmallWorld) })},
			"timings":       {Type: graphql.NewList(timingType), Resolve: from(func(r *pipeline.Report) any { return r.Timings })},
		},
	})
}

// NewSchema builds a schema whose report field resolves to r.
func NewSchema(r *pipeline.Report) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"report": &graphql.Field{
				Type: newReportType(),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}
