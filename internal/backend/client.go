// Package backend wraps the platform's REST API, one thin typed call per
// resource. Every call except the price advisory carries the session's bearer
// token. The backend is authoritative for all data; callers re-fetch after
// every mutation instead of patching local copies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/commute-front/internal/observability"
)

type Client struct {
	baseURL     string
	advisoryURL string
	httpc       *http.Client
	logger      *slog.Logger
}

// New builds a client for the REST API rooted at baseURL (including the /api
// prefix). advisoryURL hosts the unauthenticated price suggestion endpoint
// and may equal baseURL.
func New(baseURL, advisoryURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		advisoryURL: strings.TrimRight(advisoryURL, "/"),
		httpc:       &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// do performs one round-trip. token is sent verbatim in the Authorization
// header (the session store guarantees the "Bearer " prefix). A nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		observability.BackendRequestsTotal.WithLabelValues(method, resourceLabel(path), "error").Inc()
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	observability.BackendRequestsTotal.WithLabelValues(method, resourceLabel(path), status).Inc()
	observability.BackendRequestDuration.WithLabelValues(method, resourceLabel(path)).Observe(time.Since(start).Seconds())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 400 {
		apiErr := errorFromResponse(resp.StatusCode, data)
		c.logger.Debug("backend rejected call",
			"method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// resourceLabel keeps metric cardinality bounded: only the first path segment
// identifies the resource, never entity ids.
func resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	if i := strings.IndexByte(trimmed, '?'); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}
