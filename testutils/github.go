package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/graphql-go/graphql"
)

// FakeGitHub serves the securityAdvisory part of the GitHub GraphQL API
type FakeGitHub struct {
	*httptest.Server

	token      string
	advisories map[string][]string
	schema     graphql.Schema

	mu      sync.Mutex
	queries []string
	auth    []string
}

// NewFakeGitHub starts a GraphQL endpoint that knows the given advisories.
// When token is not empty, requests without "Authorization: token <token>"
// are rejected with 401.
func NewFakeGitHub(token string, advisories map[string][]string) *FakeGitHub {
	f := &FakeGitHub{token: token, advisories: advisories}
	f.schema = f.buildSchema()
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

func (f *FakeGitHub) buildSchema() graphql.Schema {
	cweNode := graphql.NewObject(graphql.ObjectConfig{
		Name: "CWE",
		Fields: graphql.Fields{
			"cweId": &graphql.Field{Type: graphql.String},
		},
	})
	cweConnection := graphql.NewObject(graphql.ObjectConfig{
		Name: "CWEConnection",
		Fields: graphql.Fields{
			"nodes": &graphql.Field{Type: graphql.NewList(cweNode)},
		},
	})
	advisory := graphql.NewObject(graphql.ObjectConfig{
		Name: "SecurityAdvisory",
		Fields: graphql.Fields{
			"ghsaId":  &graphql.Field{Type: graphql.String},
			"summary": &graphql.Field{Type: graphql.String},
			"cwes": &graphql.Field{
				Type: cweConnection,
				Args: graphql.FieldConfigArgument{
					"first": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ids, _ := p.Source.(map[string]interface{})["cweIds"].([]string)
					if first, ok := p.Args["first"].(int); ok && first < len(ids) {
						ids = ids[:first]
					}
					nodes := make([]map[string]interface{}, 0, len(ids))
					for _, id := range ids {
						nodes = append(nodes, map[string]interface{}{"cweId": id})
					}
					return map[string]interface{}{"nodes": nodes}, nil
				},
			},
		},
	})
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"securityAdvisory": &graphql.Field{
				Type: advisory,
				Args: graphql.FieldConfigArgument{
					"ghsaId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["ghsaId"].(string)
					ids, ok := f.advisories[id]
					if !ok {
						return nil, nil
					}
					return map[string]interface{}{
						"ghsaId":  id,
						"summary": "advisory " + id,
						"cweIds":  ids,
					}, nil
				},
			},
		},
	})
	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		panic(err)
	}
	return schema
}

func (f *FakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	authorization := r.Header.Get("Authorization")

	var params struct {
		Query string `json:"query"`
	}
	if r.Method != http.MethodPost || json.NewDecoder(r.Body).Decode(&params) != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Problems parsing JSON"}`))
		return
	}

	f.mu.Lock()
	f.queries = append(f.queries, params.Query)
	f.auth = append(f.auth, authorization)
	f.mu.Unlock()

	if f.token != "" && authorization != "token "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:        f.schema,
		RequestString: params.Query,
		Context:       r.Context(),
	})
	_ = json.NewEncoder(w).Encode(result)
}

// Queries returns the GraphQL documents received so far
func (f *FakeGitHub) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// Authorizations returns the Authorization headers received so far
func (f *FakeGitHub) Authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...)
}
