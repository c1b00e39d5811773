// Package client is a Go client for the serverdash HTTP API.
//
//	c, err := client.New("http://localhost:3021", client.WithToken(token))
//	services, err := c.Services(ctx, models.FilterCritical, models.DetailStatus)
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"evalgo.org/serverdash/internal/version"
	"evalgo.org/serverdash/models"
)

// Response headers describing a degraded aggregation.
const (
	headerServicesDegraded = "X-Services-Degraded"
	headerServicesFailed   = "X-Services-Failed"
)

// Client talks to a running serverdash server.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  version.Get().UserAgent(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, msg, e.Details)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, msg)
}

// ServicesResponse is an aggregation together with its degradation report.
type ServicesResponse struct {
	List     models.ServiceList
	Degraded int
	Failed   []string
}

// Health returns nil when the server reports healthy.
func (c *Client) Health(ctx context.Context) error {
	var body map[string]string
	if _, err := c.get(ctx, "/health", nil, &body); err != nil {
		return err
	}
	if body["status"] != "healthy" {
		return fmt.Errorf("server reported status %q", body["status"])
	}
	return nil
}

// Services runs an aggregation on the server.
func (c *Client) Services(ctx context.Context, filter models.Filter, detail models.Detail) (*ServicesResponse, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", string(filter))
	}
	if detail != "" {
		q.Set("detail", string(detail))
	}

	if detail == "" {
		detail = models.DetailFull
	}

	var raw json.RawMessage
	header, err := c.get(ctx, "/api/services", q, &raw)
	if err != nil {
		return nil, err
	}

	resp := &ServicesResponse{}
	switch detail {
	case models.DetailStatus:
		var statuses []models.ServiceStatus
		if err := json.Unmarshal(raw, &statuses); err != nil {
			return nil, fmt.Errorf("failed to decode services: %w", err)
		}
		resp.List = models.StatusList(statuses)
	default:
		var services []models.Service
		if err := json.Unmarshal(raw, &services); err != nil {
			return nil, fmt.Errorf("failed to decode services: %w", err)
		}
		resp.List = models.FullList(services)
	}

	if n, err := strconv.Atoi(header.Get(headerServicesDegraded)); err == nil {
		resp.Degraded = n
	}
	if failed := header.Get(headerServicesFailed); failed != "" {
		resp.Failed = strings.Split(failed, ",")
	}
	return resp, nil
}

func (c *Client) Containers(ctx context.Context) ([]models.DockerContainer, error) {
	var containers []models.DockerContainer
	if _, err := c.get(ctx, "/api/docker/containers", nil, &containers); err != nil {
		return nil, err
	}
	return containers, nil
}

func (c *Client) Stats(ctx context.Context) (*models.DockerStats, error) {
	var stats models.DockerStats
	if _, err := c.get(ctx, "/api/docker/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Logs fetches the last tail lines of a container's output, optionally
// limited to lines after since.
func (c *Client) Logs(ctx context.Context, id string, tail int, since string) ([]string, error) {
	q := url.Values{}
	if tail > 0 {
		q.Set("tail", strconv.Itoa(tail))
	}
	if since != "" {
		q.Set("since", since)
	}

	var lines []string
	if _, err := c.get(ctx, "/api/docker/containers/"+url.PathEscape(id)+"/logs", q, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Action starts, stops or restarts a container.
func (c *Client) Action(ctx context.Context, id string, action models.ContainerAction) error {
	path := "/api/docker/containers/" + url.PathEscape(id) + "/" + url.PathEscape(string(action))

	var body struct {
		Success bool `json:"success"`
	}
	if _, err := c.do(ctx, http.MethodPost, path, nil, &body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("server did not confirm %s of %s", action, id)
	}
	return nil
}

func (c *Client) System(ctx context.Context) (*models.SystemInfo, error) {
	var info models.SystemInfo
	if _, err := c.get(ctx, "/api/system", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Network(ctx context.Context) (*models.NetworkInfo, error) {
	var info models.NetworkInfo
	if _, err := c.get(ctx, "/api/network", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Polling returns the refresh cadence published by the server.
func (c *Client) Polling(ctx context.Context) (*models.PollingIntervals, error) {
	var p models.PollingIntervals
	if _, err := c.get(ctx, "/api/ui/polling", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) (http.Header, error) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) (http.Header, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return resp.Header, apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}
