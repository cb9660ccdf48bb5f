package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
)

// Client wraps requests against the commits endpoint
type Client struct {
	doer      Doer
	baseURL   string
	userAgent string
	from      string
}

// TransportError is a failed request: no response, an unreadable body or a non-200 status
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: received status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a response body that is not the expected JSON document
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type pageQuery struct {
	Format string `url:"format"`
	Page   int    `url:"p"`
}

// NewClient creates a client for the endpoint rooted at baseURL. baseURL must
// end with the path separator that precedes the repository name.
func NewClient(doer Doer, baseURL, userAgent, from string) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}

	return &Client{
		doer:      doer,
		baseURL:   baseURL,
		userAgent: userAgent,
		from:      from,
	}
}

// PageURL returns the URL of one page of commits. An empty repository
// addresses every repository.
func (c *Client) PageURL(repository string, page int) (string, error) {
	values, err := query.Values(pageQuery{Format: "json", Page: page})
	if err != nil {
		return "", fmt.Errorf("error encoding query: %w", err)
	}

	return c.baseURL + url.PathEscape(repository) + "?" + values.Encode(), nil
}

// GetPage retrieves and decodes a single page of commits
func (c *Client) GetPage(ctx context.Context, repository string, page int) (*Page, error) {
	pageURL, err := c.PageURL(repository, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.from != "" {
		req.Header.Set("From", c.from)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("received status code %d", resp.StatusCode),
		}
	}

	var result Page
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &DecodeError{URL: pageURL, Err: err}
	}

	return &result, nil
}
