package graph

import (
	"github.com/graphql-go/graphql"
)

// NewSchema assembles the full operation surface.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	queryFields := r.userQueryFields()
	for name, f := range r.chatQueryFields() {
		queryFields[name] = f
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields,
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: r.userMutationFields(),
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
