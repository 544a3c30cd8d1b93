// Package ghsa resolves GitHub security advisory identifiers through the
// GitHub GraphQL API.
package ghsa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/securego/cwelookup"
)

// SourceName identifies results produced by the advisory database
const SourceName = "ghsa"

const advisoryQuery = `query {
	securityAdvisory(ghsaId: %s) {
		ghsaId
		summary
		cwes(first: 1) { nodes { cweId } }
	}
}`

// Advisory is the part of a security advisory requested by the resolver
type Advisory struct {
	GhsaID  string `json:"ghsaId"`
	Summary string `json:"summary"`
	Cwes    struct {
		Nodes []CWENode `json:"nodes"`
	} `json:"cwes"`
}

// CWENode is one weakness attached to an advisory
type CWENode struct {
	CweID string `json:"cweId"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type graphqlResponse struct {
	Data struct {
		SecurityAdvisory *Advisory `json:"securityAdvisory"`
	} `json:"data"`
	Errors []graphqlError `json:"errors,omitempty"`
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint
func WithEndpoint(u string) Option {
	return func(c *Client) { c.endpoint = u }
}

// WithToken sets the GitHub token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client resolves advisory keys, one GraphQL request per key
type Client struct {
	endpoint   string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

var _ cwelookup.Resolver = (*Client)(nil)

// NewClient creates a Client with the given options
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:   cwelookup.DefaultGitHubURL,
		httpClient: &http.Client{Timeout: cwelookup.DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Name implements cwelookup.Resolver
func (c *Client) Name() string {
	return SourceName
}

// Query builds the GraphQL document for an advisory. At most one weakness
// is requested. The id is quoted with JSON escapes, which GraphQL string
// literals share.
func Query(ghsaID string) string {
	quoted, _ := json.Marshal(ghsaID)
	return fmt.Sprintf(advisoryQuery, quoted)
}

// Fetch retrieves an advisory. A nil advisory without error means GitHub does
// not know the identifier.
func (c *Client) Fetch(ctx context.Context, ghsaID string) (*Advisory, error) {
	if c.token == "" {
		c.logger.Warn("advisory identifier present but no GitHub token was given, the request will likely be rejected",
			zap.String("ghsa", ghsaID))
	}

	payload, err := json.Marshal(map[string]string{"query": Query(ghsaID)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying GitHub for %s: %w", ghsaID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &cwelookup.StatusError{StatusCode: resp.StatusCode}
	}

	var doc graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding GitHub response for %s: %w", ghsaID, err)
	}
	if len(doc.Errors) > 0 {
		messages := make([]string, 0, len(doc.Errors))
		for _, e := range doc.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Warn("GitHub reported query errors",
			zap.String("ghsa", ghsaID),
			zap.String("errors", strings.Join(messages, "; ")))
	}
	return doc.Data.SecurityAdvisory, nil
}

// Resolve implements cwelookup.Resolver
func (c *Client) Resolve(ctx context.Context, key string) cwelookup.Result {
	advisory, err := c.Fetch(ctx, key)
	if err != nil {
		return cwelookup.Failed(err)
	}
	return Classify(advisory)
}

// Classify reads the first weakness node of an advisory. Advisories without
// weaknesses, and unknown advisories, resolve to unknown.
func Classify(advisory *Advisory) cwelookup.Result {
	if advisory == nil || len(advisory.Cwes.Nodes) == 0 || advisory.Cwes.Nodes[0].CweID == "" {
		return cwelookup.Unknown()
	}
	return cwelookup.Resolved(advisory.Cwes.Nodes[0].CweID)
}
