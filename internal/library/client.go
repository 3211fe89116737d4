// Package library is the HTTP client for the remote library-sync
// backend: check, fetch, add, and trash documents, update their notes,
// and download attached files.
package library

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	// DefaultBaseURL is the library backend endpoint.
	DefaultBaseURL = "https://api.scholartools.io/library/v1"

	// DefaultTimeout is the default HTTP request timeout. Adds can take a
	// while because the backend fetches the document file server-side.
	DefaultTimeout = 2 * time.Minute

	// RateLimit is 10 requests per second per the backend documentation.
	RateLimit = 10.0
)

// Client is a rate-limited HTTP client for the library backend.
// It implements engine.Library.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the access token for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient creates a library-backend client. The token defaults to the
// SHREW_LIBRARY_TOKEN environment variable.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    DefaultBaseURL,
	}
	if token := os.Getenv("SHREW_LIBRARY_TOKEN"); token != "" {
		c.token = token
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sync asks the backend to flush pending changes so subsequent lookups
// see a consistent view.
func (c *Client) Sync(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/sync", nil, nil)
}

// DocumentExists reports whether a document with the DOI is present.
func (c *Client) DocumentExists(ctx context.Context, doi string) (bool, error) {
	_, err := c.GetDocument(ctx, doi)
	if errors.Is(err, engine.ErrDocumentNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetDocument fetches the stored document for the DOI. Absence is
// reported with engine.ErrDocumentNotFound.
func (c *Client) GetDocument(ctx context.Context, doi string) (*engine.Document, error) {
	params := url.Values{"doi": {reference.NormalizeDOI(doi)}}

	var doc engine.Document
	if err := c.do(ctx, http.MethodGet, "/documents?"+params.Encode(), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// AddDocument asks the backend to add the document named by doi,
// fetching its metadata and file server-side.
func (c *Client) AddDocument(ctx context.Context, doi string) error {
	body := map[string]string{"doi": reference.NormalizeDOI(doi)}
	return c.do(ctx, http.MethodPost, "/documents", body, nil)
}

// TrashDocument moves the document with the DOI to the backend's trash.
// The backend trashes by internal id, so a lookup runs first; absence at
// either step surfaces as engine.ErrDocumentNotFound.
func (c *Client) TrashDocument(ctx context.Context, doi string) error {
	doc, err := c.GetDocument(ctx, doi)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/documents/"+url.PathEscape(doc.ID)+"/trash", nil, nil)
}

// UpdateNotes replaces the document's notes.
func (c *Client) UpdateNotes(ctx context.Context, docID, notes string) error {
	body := map[string]string{"notes": notes}
	return c.do(ctx, http.MethodPatch, "/documents/"+url.PathEscape(docID), body, nil)
}

// DownloadFile streams the document's attached file to w. Documents
// without a file surface engine.ErrPDFUnavailable.
func (c *Client) DownloadFile(ctx context.Context, docID string, w io.Writer) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(docID)+"/file", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", engine.ErrParseFailure, err)
	}
	return nil
}
