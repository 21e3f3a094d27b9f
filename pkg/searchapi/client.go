/*
Package searchapi queries a remote language search endpoint.

The endpoint is called with GET and a `search` parameter added to whatever
parameters the configured URL already carries, e.g. a MediaWiki API:

	https://example.org/w/api.php?action=languagesearch&format=json&formatversion=2

and must answer with an object of code -> name pairs, best match first:

	{"languagesearch": {"fr": "français", "frr": "Nordfriisk"}}

Entries keep the order the server sent them in.
*/
package searchapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/bastiangx/langfilter/internal/logger"
	"github.com/bastiangx/langfilter/pkg/languagefilter"
)

const (
	// DefaultTimeout bounds one request.
	DefaultTimeout = 5 * time.Second

	maxBodySize = 1 << 20
)

var ErrMalformed = errors.New("searchapi: malformed response")

// HTTPDoer describes the HTTP client used by the search client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements languagefilter.SearchAPI over HTTP. Concurrent searches
// for the same query share one request.
type Client struct {
	endpoint *url.URL
	client   HTTPDoer
	timeout  time.Duration
	group    singleflight.Group
	log      *log.Logger
}

var _ languagefilter.SearchAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.client = doer }
}

// WithTimeout sets the per request timeout. Zero or less keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for endpoint, which must be an absolute http(s) URL.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("parse search endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("search endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("search endpoint %q: missing host", endpoint)
	}

	c := &Client{
		endpoint: u,
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Default("searchapi")
	}
	return c, nil
}

// Search asks the endpoint for languages matching query.
func (c *Client) Search(ctx context.Context, query string) (*languagefilter.SearchResult, error) {
	// the shared request must outlive any single caller giving up
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(query, func() (any, error) {
		return c.fetch(shared, query)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.log.Debug("shared in-flight search", "query", query)
		}
		return res.Val.(*languagefilter.SearchResult), nil
	}
}

func (c *Client) fetch(ctx context.Context, query string) (*languagefilter.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.requestURL(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("search %q: endpoint returned %d", query, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	result, err := Parse(query, body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("remote search", "query", query, "results", len(result.Entries), "took", time.Since(start))
	return result, nil
}

func (c *Client) requestURL(query string) string {
	u := *c.endpoint
	params := u.Query()
	params.Set("search", query)
	u.RawQuery = params.Encode()
	return u.String()
}

// Parse reads a languagesearch response body. An empty array counts as no
// results, which is how some servers encode an empty object.
func Parse(query string, body []byte) (*languagefilter.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}
	found := gjson.GetBytes(body, "languagesearch")
	if !found.Exists() {
		return nil, fmt.Errorf("%w: no languagesearch field", ErrMalformed)
	}

	result := &languagefilter.SearchResult{Query: query}
	switch {
	case found.IsObject():
		found.ForEach(func(code, name gjson.Result) bool {
			result.Entries = append(result.Entries, languagefilter.SearchEntry{
				Code: code.String(),
				Name: name.String(),
			})
			return true
		})
	case found.IsArray() && len(found.Array()) == 0:
	default:
		return nil, fmt.Errorf("%w: languagesearch is %s", ErrMalformed, found.Type)
	}
	return result, nil
}
