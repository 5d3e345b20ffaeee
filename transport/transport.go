package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Response is what a Fetcher got back for a URL.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Fetcher retrieves the resource behind url.
// A non-2xx answer is a Response, not an error; errors mean no answer at all.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

type FetcherFunc func(ctx context.Context, url string) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// HTTPFetcher performs GET requests. Retry and backoff are left to the caller's client.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = HTTPFetcher{}

// NewHTTPFetcher wraps client; nil means a client with DefaultTimeout.
func NewHTTPFetcher(client *http.Client) HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return HTTPFetcher{client: client}
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       body,
	}, nil
}
