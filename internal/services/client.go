package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/shared"
)

const DefaultBaseURL = "http://localhost:8000/"

// Client calls the skill-swap backend. Every method issues exactly one request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a backend client rooted at baseURL.
//
// The http.Client should carry a cookie jar (see [NewJar]) so the session cookie is sent with every call.
// A nil client uses [http.DefaultClient].
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: log.Default()}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// BaseURL returns the normalized base URL, always ending in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes a single backend call.
type request struct {
	op     string
	method string
	path   string
	form   url.Values // form encoded body
	json   any        // JSON body
}

func (c *Client) get(ctx context.Context, op, path string, result any) error {
	return c.do(ctx, request{op: op, method: http.MethodGet, path: path}, result)
}

func (c *Client) postForm(ctx context.Context, op, path string, form url.Values, result any) error {
	return c.do(ctx, request{op: op, method: http.MethodPost, path: path, form: form}, result)
}

// do sends the request and normalizes the outcome. A nil result discards a successful body.
func (c *Client) do(ctx context.Context, req request, result any) error {
	var body io.Reader
	contentType := ""

	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.json != nil:
		data, err := json.Marshal(req.json)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", req.op, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("backend request failed", "op", req.op, "method", req.method, "path", req.path, "error", err)
		return fmt.Errorf("%s: %w: %w", req.op, shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: failed to read response: %w", req.op, shared.ErrNetwork, err)
	}

	c.logger.Debug("backend request", "op", req.op, "method", req.method, "path", req.path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestFailed(req.op, resp, data)
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%s: %w: %v", req.op, shared.ErrDecodeResponse, err)
	}
	return nil
}
