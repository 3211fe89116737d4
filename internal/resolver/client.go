// Package resolver is the HTTP client for the citation-resolution
// service: given a document identifier it returns the document's ordered
// reference list, and given a free-text citation it attempts to recover a
// DOI and title.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/scholartools/shrew/internal/engine"
	"github.com/scholartools/shrew/internal/reference"
)

const (
	// DefaultBaseURL is the resolution service endpoint.
	DefaultBaseURL = "https://api.scholartools.io/resolver/v1"

	// DefaultTimeout is the default HTTP request timeout. Reference
	// scraping can take a while on slow publisher sites.
	DefaultTimeout = 90 * time.Second

	// RateLimit is 5 requests per second per the service documentation.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for the resolution service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a resolution-service client. The API key defaults to
// the SHREW_RESOLVER_KEY environment variable.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
	}
	if key := os.Getenv("SHREW_RESOLVER_KEY"); key != "" {
		c.apiKey = key
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// referencesResponse is the payload of GET /references.
type referencesResponse struct {
	References []reference.Raw `json:"references"`
}

// citationResponse is the payload of GET /citation.
type citationResponse struct {
	DOI   string `json:"doi"`
	Title string `json:"title"`
}

// ResolveReferences returns the ordered reference list for the document
// named by id. Order is preserved exactly as the service returns it.
func (c *Client) ResolveReferences(ctx context.Context, id string, kind engine.IDKind) ([]reference.Raw, error) {
	if kind == "" {
		kind = engine.KindDOI
	}
	params := url.Values{
		"id":   {id},
		"type": {string(kind)},
	}

	var resp referencesResponse
	if err := c.get(ctx, "/references", params, &resp); err != nil {
		return nil, err
	}
	return resp.References, nil
}

// DOIAndTitleFromCitation submits a free-text citation and returns
// whatever DOI and title the service could recover. Both values may be
// empty; callers apply their own confidence checks.
func (c *Client) DOIAndTitleFromCitation(ctx context.Context, text string) (string, string, error) {
	params := url.Values{"q": {text}}

	var resp citationResponse
	if err := c.get(ctx, "/citation", params, &resp); err != nil {
		return "", "", err
	}
	return resp.DOI, resp.Title, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", engine.ErrParseFailure, err)
	}
	return nil
}
