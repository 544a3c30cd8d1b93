package nvd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/cwe"
)

// SourceName identifies results produced by the NVD API
const SourceName = "nvd"

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the CVE API endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIKey sets the key sent in the apiKey header. Without a key the API
// is queried anonymously at a lower rate limit.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
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

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Client resolves CVE keys by querying the NVD CVE API, one request per key
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

var _ cwelookup.Resolver = (*Client)(nil)

// NewClient creates a Client with the given options
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    cwelookup.DefaultNVDURL,
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

// Fetch retrieves the CVE API document of a single CVE. A non-success status
// is returned as a *cwelookup.StatusError.
func (c *Client) Fetch(ctx context.Context, cveID string) (*Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid NVD url: %w", err)
	}
	q := u.Query()
	q.Set("cveId", cveID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apiKey", c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying NVD for %s: %w", cveID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &cwelookup.StatusError{StatusCode: resp.StatusCode}
	}

	var doc Response
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding NVD response for %s: %w", cveID, err)
	}
	return &doc, nil
}

// Resolve implements cwelookup.Resolver
func (c *Client) Resolve(ctx context.Context, key string) cwelookup.Result {
	c.logger.Debug("querying NVD", zap.String("cve", key), zap.Bool("authenticated", c.apiKey != ""))
	doc, err := c.Fetch(ctx, key)
	if err != nil {
		return cwelookup.Failed(err)
	}
	return Classify(doc)
}

// Classify extracts the weakness of the first vulnerability of an API
// document. The first weakness with a description decides; NVD placeholders
// and records without weaknesses resolve to unknown.
func Classify(doc *Response) cwelookup.Result {
	if doc == nil || len(doc.Vulnerabilities) == 0 {
		return cwelookup.Unknown()
	}
	record := doc.Vulnerabilities[0].CVE
	if !record.HasWeaknesses() {
		return cwelookup.Unknown()
	}
	value, ok := FirstDescribed(record.Weaknesses)
	if !ok {
		return cwelookup.Unknown()
	}
	if value = cwe.Canonical(value); value == cwe.Unknown {
		return cwelookup.Unknown()
	}
	return cwelookup.Resolved(value)
}
