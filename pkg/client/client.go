// Package client is a thin Go SDK for the asyncwand HTTP API
// (SPEC_FULL.md §6.4), adapted from the teacher's pkg/client.APIClient:
// the same retry/backoff/APIError shape, pointed at the three
// /api/v1/analyses* endpoints instead of CodeAtlas's index/search ones.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/asyncwand/asyncwand/internal/config"
	"github.com/asyncwand/asyncwand/internal/reportio"
)

// Client talks to a running asyncwand API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// New creates a Client against baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		maxRetries: 3,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithToken sets a bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithMaxRetries overrides the retry count for 5xx/429 responses.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) { c.maxRetries = maxRetries }
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asyncwand API error (status %d): %s", e.StatusCode, e.Message)
}

// AnalysisResponse is the body returned by CreateAnalysis.
type AnalysisResponse = reportio.Document

// CreateAnalysis runs doc on the server synchronously and returns the
// resulting report document.
func (c *Client) CreateAnalysis(ctx context.Context, doc *config.Document) (*AnalysisResponse, error) {
	var resp AnalysisResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, "/api/v1/analyses", doc, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAnalysis fetches a previously persisted run summary.
func (c *Client) GetAnalysis(ctx context.Context, runID string) (map[string]interface{}, error) {
	var resp map[string]interface{}
	if err := c.doRequestWithRetry(ctx, http.MethodGet, "/api/v1/analyses/"+runID, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetReport fetches the rendered report for runID in the given format
// ("json" or "markdown") and returns the raw response body.
func (c *Client) GetReport(ctx context.Context, runID, format string) ([]byte, error) {
	path := "/api/v1/analyses/" + runID + "/report?format=" + format
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building report request: %w", err)
	}
	c.applyHeaders(req, false)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading report response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

func (c *Client) applyHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) doRequestWithRetry(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err := c.doRequest(ctx, method, path, body, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.applyHeaders(req, body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

func isRetryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}
	return false
}
