package tasklist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Endpoint is the tasks URL the UI talks to. It is fixed at build time:
//
//	go build -ldflags "-X github.com/s1natex/tasklist-GO/internal/tasklist.Endpoint=https://api.example/dev/tasks"
var Endpoint = "http://localhost:8080/tasks"

// API is what the component needs from the tasks backend.
type API interface {
	List(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, t NewTask) error
}

// StatusError reports a non-2xx reply.
type StatusError struct {
	Method     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s tasks: status=%d body=%s", e.Method, e.StatusCode, e.Body)
}

type Client struct {
	httpClient *http.Client
	endpoint   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient returns a client for endpoint. Requests carry no timeout of
// their own; cancel ctx to abandon one.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		endpoint:   endpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context) ([]Entry, error) {
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	return ParseList(body)
}

func (c *Client) Create(ctx context.Context, t NewTask) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, payload)
	return err
}

func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	var buf io.Reader
	if payload != nil {
		buf = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, buf)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return b, nil
}
