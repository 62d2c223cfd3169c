// Package backend is the JSON REST client for the external prediction
// services.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// RequestIDHeader is sent with every request so backend logs can be
// correlated. The id of the originating UI request is reused when present.
const RequestIDHeader = "X-Request-ID"

// Resolver turns a backend name and path into an absolute URL.
type Resolver interface {
	URL(backend, path string) (string, error)
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each request. Zero leaves it to the caller's context.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the prediction backends.
type Client struct {
	resolver   Resolver
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client resolving URLs through resolver.
func NewClient(resolver Resolver, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		resolver:   resolver,
		httpClient: hc,
		logger:     logger,
	}
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, backend, path string, out any) error {
	return c.do(ctx, http.MethodGet, backend, path, nil, out)
}

// PostJSON issues a POST with body encoded as JSON and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, backend, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, backend, path, body, out)
}

func (c *Client) do(ctx context.Context, method, backend, path string, body, out any) error {
	endpoint, err := c.resolver.URL(backend, path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s%s: %w", backend, path, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			"method", method, "url", endpoint, "request_id", reqID, "error", err)
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}

	c.logger.Debug("backend request",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  errorField(data),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// errorField extracts {"error": "..."} from a failure body.
func errorField(data []byte) string {
	var body struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	switch v := body.Error.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
