package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/xfcbe/fake-news-detection/internal/session"
)

const DefaultErrorMessage = "Something went wrong"

// APIError is returned for every non-2xx response. Message carries the
// server's "message" field when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Endpoints struct {
	Login       string
	Signup      string
	Logout      string
	Analyze     string
	History     string
	HistoryItem string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:       "/auth/login",
		Signup:      "/auth/signup",
		Logout:      "/auth/logout",
		Analyze:     "/analyze",
		History:     "/history",
		HistoryItem: "/history/:id",
	}
}

type RequestOptions struct {
	Method  string
	Headers http.Header
	Body    any
}

type Client struct {
	baseURL    string
	endpoints  Endpoints
	session    *session.Session
	httpClient *http.Client
	logger     *log.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests to their context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoints:  DefaultEndpoints(),
		session:    sess,
		httpClient: &http.Client{},
		logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends one JSON request to baseURL+endpoint. The stored bearer token
// is attached when present and opts.Headers are merged last, so callers may
// override any default header. A 2xx body is decoded into out when out is
// non-nil.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshal %s request failed: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request failed: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.session.Token(ctx)
	if err != nil {
		c.logger.Printf("api %s %s: read session token failed: %v", method, endpoint, err)
		return fmt.Errorf("read session token failed: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range opts.Headers {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("api %s %s: %v", method, endpoint, err)
		return fmt.Errorf("%s %s request failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Printf("api %s %s: read body: %v", method, endpoint, err)
		return fmt.Errorf("read %s response failed: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: DefaultErrorMessage}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		c.logger.Printf("api %s %s: status=%d message=%q", method, endpoint, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Printf("api %s %s: decode body: %v", method, endpoint, err)
		return fmt.Errorf("parse %s response failed: %w", endpoint, err)
	}
	return nil
}
