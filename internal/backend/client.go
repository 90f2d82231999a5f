package backend

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the resty-backed implementation of API against the remote
// marketplace REST service. It performs no retries: a failed request is
// terminal for that user action.
type Client struct {
	http    *resty.Client
	baseURL string
}

var _ API = (*Client)(nil)

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "marketspace-gateway/1.0")

	return &Client{
		http:    http,
		baseURL: baseURL,
	}
}

// ImageURL composes the public URL of a stored image path, following the
// backend's static /images/:path convention.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/images/%s", c.baseURL, path)
}

// request returns a prepared request carrying the caller's bearer token.
func (c *Client) request(token string) *resty.Request {
	req := c.http.R()
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// wrap normalizes a resty outcome into the error taxonomy: transport errors
// are wrapped as-is, non-2xx responses with a decodable {"message": ...} body
// become a tagged *APIError, and everything else is a generic status error.
func wrap(resp *resty.Response, err error, action string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if !resp.IsError() {
		return nil
	}

	var body struct {
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Message != "" {
		return fmt.Errorf("%s: %w", action, &APIError{Status: resp.StatusCode(), Message: body.Message})
	}
	return fmt.Errorf("%s: backend returned status %d", action, resp.StatusCode())
}
