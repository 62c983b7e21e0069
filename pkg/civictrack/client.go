package civictrack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Client provides methods to interact with the CivicTrack REST API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
}

// NewClient creates a CivicTrack API client. The token source may be nil
// for a client that only performs unauthenticated calls; when present, its
// token is attached as a bearer header on every request that has one.
func NewClient(config Config, source TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: &bearerTransport{source: source},
		},
		config: config,
		logger: logger.With("component", "civictrack-client"),
	}
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// doJSON performs a request with an optional JSON body and decodes a 2xx
// response into out (skipped when out is nil). Non-2xx responses become an
// *Error carrying the backend's error message.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return wrapError(op, fmt.Errorf("marshal request: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return wrapError(op, fmt.Errorf("create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, op, out)
}

// send executes a prepared request and decodes the response.
func (c *Client) send(req *http.Request, op string, out any) error {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	c.logger.Debug("request", "op", op, "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(op, fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("response", "op", op, "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(op, resp.StatusCode, errorMessage(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return wrapError(op, fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err))
	}
	return nil
}

// errorMessage extracts the backend's error string from a failure body.
// The API reports failures as {"error": "..."}.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// encodeQuery renders non-empty filter values as a query string, with the
// leading "?" when any are set.
func encodeQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
