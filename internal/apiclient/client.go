// Package apiclient is the HTTP client for the coaching API and the image host.
// Every call returns either a decoded 2xx payload or a typed *Error. Calls are
// never retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 8 << 20

	// RequestIDHeader carries a per-call id so client and server logs line up
	RequestIDHeader = "X-Request-ID"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the API root including the /api prefix
	BaseURL        string
	ImageUploadURL string
	UploadPreset   string
	HTTPClient     *http.Client
	Timeout        time.Duration
	// Registerer receives the call metrics. Nil keeps them private.
	Registerer prometheus.Registerer
}

// Client calls the remote API.
type Client struct {
	baseURL      string
	uploadURL    string
	uploadPreset string
	httpClient   *http.Client
	metrics      *metrics

	mu    sync.RWMutex
	token string
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		uploadURL:    cfg.ImageUploadURL,
		uploadPreset: cfg.UploadPreset,
		httpClient:   httpClient,
		metrics:      newMetrics(cfg.Registerer),
	}, nil
}

// SetToken installs the bearer token sent with every API call. An empty token
// removes the header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the bearer token currently in use
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Do sends body (JSON encoded, may be nil) to path and decodes a 2xx response
// into out (may be nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	respBody, err := c.send(req, resourceOf(path))
	if err != nil {
		return err
	}
	return decode(req, respBody, out)
}

// send performs the request and returns the body of a 2xx response
func (c *Client) send(req *http.Request, resource string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		c.metrics.requests.WithLabelValues(req.Method, resource, outcome(err)).Inc()
		c.metrics.duration.WithLabelValues(req.Method, resource).Observe(time.Since(start).Seconds())
	}()

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: req.Method, Path: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: req.Method, Path: req.URL.Path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindProtocol,
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Body:       body,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return body, nil
}

func decode(req *http.Request, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Method: req.Method, Path: req.URL.Path, Body: body, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
