package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mbtanearby/backend-go/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
	GetJSON(ctx context.Context, path string, v any) error
}

type Client struct {
	baseURL    string
	service    string
	httpClient *http.Client
	GetFunc    func(ctx context.Context, path string) (*Response, error)
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Service labels log lines and metrics, e.g. "mbta"
	Service string
}

var _ Interface = (*Client)(nil)

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Service == "" {
		opts.Service = "http"
	}

	return &Client{
		baseURL: opts.BaseURL,
		service: opts.Service,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Get issues a GET against baseURL+path. Non-2xx responses are returned
// without an error; use GetJSON for status checking.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	var fullURL string
	if c.baseURL == "" {
		fullURL = path // If no base URL, treat path as full URL
	} else {
		fullURL = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(c.service, 0, start)
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Debug().Err(err).Str("service", c.service).Msg("Error closing response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	metrics.ObserveUpstream(c.service, resp.StatusCode, start)
	if err != nil {
		return nil, err
	}

	log.Trace().
		Str("service", c.service).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Upstream response")

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// GetJSON fetches path and decodes a 2xx body into v
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("no response from %s", c.service)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewStatusError(c.service, resp.StatusCode, resp.Body)
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
