// Package client provides an HTTP client for the parlante comment service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evcraddock/parlante-widget/internal/comment"
	"github.com/evcraddock/parlante-widget/internal/logging"
)

// Client is an HTTP client for the parlante comment API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. A nil httpClient gets a client with no
// timeout of its own that sends through DefaultTransport and logs every
// request at debug level.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: &logging.Transport{Base: DefaultTransport()}}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the service root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is a completed HTTP exchange. Its status is informational only.
type Response struct {
	StatusCode int
	Body       string
}

// FetchThreadHTML returns the rendered comment thread fragment for a client.
// Any completed exchange is returned as-is, whatever its status; only
// transport failures produce an error.
func (c *Client) FetchThreadHTML(ctx context.Context, clientID string, env Environment) (*Response, error) {
	req, err := c.newRequest(ctx, "GET", commentPath(clientID)+"/html", nil, env)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accepted-Language", env.Locale)
	req.Header.Set("X-Timezone", env.Timezone)
	return c.send(req)
}

// PostComment submits a new comment. As with FetchThreadHTML the response
// status is never turned into an error.
func (c *Client) PostComment(ctx context.Context, clientID string, env Environment, sub comment.Submission) (*Response, error) {
	data, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, "POST", commentPath(clientID), bytes.NewReader(data), env)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

// ListComments returns the published comments for the page in env.
func (c *Client) ListComments(ctx context.Context, clientID string, env Environment) (*comment.Thread, error) {
	req, err := c.newRequest(ctx, "GET", commentPath(clientID), nil, env)
	if err != nil {
		return nil, err
	}

	var thread comment.Thread
	if err := c.do(req, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// CountComments returns the number of comments on each of the given pages.
func (c *Client) CountComments(ctx context.Context, clientID string, env Environment, pageURLs []string) (*comment.CountResponse, error) {
	data, err := json.Marshal(comment.CountRequest{PageURLs: pageURLs})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, "POST", commentPath(clientID)+"/count", bytes.NewReader(data), env)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var counts comment.CountResponse
	if err := c.do(req, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// commentPath returns /comment/{clientID}. The id is used as given, the
// way the service's own widget builds its URLs.
func commentPath(clientID string) string {
	return "/comment/" + clientID
}

// newRequest builds a request with the transport policy applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, env Environment) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	applyTransportPolicy(req, env)
	return req, nil
}

// send executes a request and returns the raw body without looking at the status.
func (c *Client) send(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

// do executes a JSON API request and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal([]byte(resp.Body), &errResp) == nil && errResp.Msg != "" {
			return fmt.Errorf("%s", errResp.Msg)
		}
		if msg := strings.TrimSpace(resp.Body); msg != "" && !strings.HasPrefix(msg, "{") {
			return fmt.Errorf("server error: %s", msg)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal([]byte(resp.Body), result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		slog.Warn("closing response body", "error", cerr)
	}
}
