package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// APIError is a non-2xx response from an inference backend. The backends
// return a human-readable detail string on failure; it is carried through so
// it can be surfaced in the UI as-is.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("inference API error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("inference API error %d", e.StatusCode)
}

// Client calls the analysis inference backends (text extraction, NER,
// sentiment, clause extraction, RAG) over JSON/HTTP. Failed requests are
// retried with exponential backoff, except client errors which never succeed
// on retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates an inference client for the given base URL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromEnv creates an inference client from INFERENCE_API_URL
func NewClientFromEnv() *Client {
	baseURL := os.Getenv("INFERENCE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return NewClient(baseURL)
}

// postJSON sends a JSON request and decodes the raw response body, retrying
// transient failures.
func (c *Client) postJSON(ctx context.Context, path string, reqBody interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to send request: %w", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: extractDetail(body)}

		// Don't retry client errors
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	return nil, fmt.Errorf("request to %s failed after %d attempts: %w", path, maxRetries, lastErr)
}

// postMultipart uploads a file as multipart/form-data and returns the raw
// response body. Uploads are not retried: the reader is consumed on the first
// attempt.
func (c *Client) postMultipart(ctx context.Context, path, filename string, data io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: extractDetail(body)}
	}
	return body, nil
}

// extractDetail pulls the FastAPI-style detail message out of an error body.
func extractDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}

// BackendStatus probes each inference backend's status route and reports
// reachability. Probes are best-effort and never error.
func (c *Client) BackendStatus(ctx context.Context) map[string]bool {
	paths := map[string]string{
		"ner":     "/api/v1/ner/model-status",
		"finbert": "/api/v1/finbert/model-status",
		"rag":     "/api/v1/rag/status",
	}

	status := make(map[string]bool, len(paths))
	for name, path := range paths {
		status[name] = c.probe(ctx, path)
	}
	return status
}

func (c *Client) probe(ctx context.Context, path string) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
