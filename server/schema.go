package server

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/securego/cwelookup"
)

var resultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Result",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"key":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"kind":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"source":     &graphql.Field{Type: graphql.String},
		"status":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"weaknesses": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		"error":      &graphql.Field{Type: graphql.String},
		"values":     &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"identifiers": &graphql.Field{Type: graphql.Int},
		"entries":     &graphql.Field{Type: graphql.Int},
		"resolved":    &graphql.Field{Type: graphql.Int},
		"unknown":     &graphql.Field{Type: graphql.Int},
		"missing":     &graphql.Field{Type: graphql.Int},
		"failed":      &graphql.Field{Type: graphql.Int},
	},
})

var batchType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Batch",
	Fields: graphql.Fields{
		"runId":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"mode":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"results": &graphql.Field{Type: graphql.NewList(resultType)},
		"stats":   &graphql.Field{Type: statsType},
		"values":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
	},
})

// CreateSchema builds the GraphQL schema answering resolve and weaknesses
// queries with engine
func CreateSchema(engine *cwelookup.Engine) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"resolve": &graphql.Field{
				Type: batchType,
				Args: graphql.FieldConfigArgument{
					"ids": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					batch, err := resolveIDs(p.Context, engine, stringArgs(p.Args["ids"]))
					if err != nil {
						return nil, err
					}
					return batchMap(batch), nil
				},
			},
			"weaknesses": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					batch, err := resolveIDs(p.Context, engine, []string{id})
					if err != nil {
						return nil, err
					}
					return batch.Values(), nil
				},
			},
		},
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

func resolveIDs(ctx context.Context, engine *cwelookup.Engine, ids []string) (*cwelookup.Batch, error) {
	if err := validateIDs(ids); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return engine.ResolveBatch(ctx, ids)
}

func stringArgs(v interface{}) []string {
	raw, _ := v.([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func batchMap(b *cwelookup.Batch) map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(b.Results))
	for _, r := range b.Results {
		results = append(results, map[string]interface{}{
			"id":         r.ID,
			"key":        r.Key,
			"kind":       r.Kind.String(),
			"source":     r.Source,
			"status":     r.Status.String(),
			"weaknesses": r.Weaknesses,
			"error":      r.Message,
			"values":     r.Values(),
		})
	}
	out := map[string]interface{}{
		"runId":   b.RunID,
		"mode":    b.Mode.String(),
		"results": results,
		"values":  b.Values(),
	}
	if s := b.Stats; s != nil {
		out["stats"] = map[string]interface{}{
			"identifiers": s.Identifiers,
			"entries":     s.Entries,
			"resolved":    s.Resolved,
			"unknown":     s.Unknown,
			"missing":     s.Missing,
			"failed":      s.Failed,
		}
	}
	return out
}
