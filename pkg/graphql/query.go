package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// DefaultMaxDepth bounds query nesting when no limit is configured. The
// report schema is at most four levels deep.
const DefaultMaxDepth = 6

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(query string, schema graphql.Schema) *graphql.Result {
	return Execute(schema, query, nil, DefaultMaxDepth)
}

// Execute validates the query depth and runs it with optional variables.
func Execute(schema graphql.Schema, query string, variables map[string]any, maxDepth int) *graphql.Result {
	if err := ValidateQueryDepth(query, maxDepth); err != nil {
		return &graphql.Result{
			Errors: []gqlerrors.FormattedError{
				gqlerrors.FormatError(err),
			},
		}
	}

	params := graphql.Params{
		Schema:        schema,
		RequestString: query,
	}
	if len(variables) > 0 {
		params.VariableValues = variables
	}
	return graphql.Do(params)
}
