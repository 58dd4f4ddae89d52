package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// gatewayClient is the shared JSON-over-HTTP plumbing used by every adapter.
// Each call is bounded by the provider's configured timeout; the caller is
// responsible for deciding whether a timeout counts as transient.
type gatewayClient struct {
	baseURL string
	timeout time.Duration
	headers map[string]string
	http    *http.Client
}

func newGatewayClient(baseURL string, timeout time.Duration, headers map[string]string) *gatewayClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &gatewayClient{
		baseURL: baseURL,
		timeout: timeout,
		headers: headers,
		http:    &http.Client{},
	}
}

// do issues one request and returns the HTTP status and raw body.
// A non-nil error means the gateway was never reached or timed out.
func (c *gatewayClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read gateway response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// retryableStatus reports whether an HTTP status from a gateway is a
// transient, retry-worthy condition rather than a definitive answer.
func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= 500
}
