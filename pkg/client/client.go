package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopdesk/shopdesk/pkg/domain"
)

// DefaultTimeout bounds every API request.
const DefaultTimeout = 10 * time.Second

// Client is the shopdesk API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	decorators []RequestDecorator
	handlers   []ResponseHandler
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
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

// WithRequestDecorator appends a request decorator. Decorators run in order.
func WithRequestDecorator(d RequestDecorator) Option {
	return func(c *Client) {
		if d != nil {
			c.decorators = append(c.decorators, d)
		}
	}
}

// WithResponseHandler appends a response handler. Handlers run in order.
func WithResponseHandler(h ResponseHandler) Option {
	return func(c *Client) {
		if h != nil {
			c.handlers = append(c.handlers, h)
		}
	}
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProfileResponse is the body of the profile endpoint.
type ProfileResponse struct {
	Data *domain.User `json:"data"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.post(ctx, "/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// LoginGoogle exchanges a Google OAuth access token for a token.
func (c *Client) LoginGoogle(ctx context.Context, accessToken string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.post(ctx, "/login/google", domain.GoogleLogin{AccessToken: accessToken}, &resp); err != nil {
		return nil, fmt.Errorf("client.LoginGoogle: %w", err)
	}
	return &resp, nil
}

// GetUser returns the current user's profile envelope.
func (c *Client) GetUser(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.get(ctx, "/profile", &resp); err != nil {
		return nil, fmt.Errorf("client.GetUser: %w", err)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, decorate := range c.decorators {
		if err := decorate(req); err != nil {
			return fmt.Errorf("decorate request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	for _, handle := range c.handlers {
		if err := handle(resp); err != nil {
			return fmt.Errorf("handle response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp, requestID)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
