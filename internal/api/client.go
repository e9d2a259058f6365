// Package api is the HTTP client for the banking dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/bankdash/internal/common"
	"github.com/google/uuid"
)

// DefaultSessionCookie is the cookie the backend uses to identify the user.
const DefaultSessionCookie = "user_id"

const requestIDHeader = "X-Request-ID"

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	noRedirect  *http.Client
	sessionName string
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient   *http.Client
	sessionName  string
	sessionValue string
	timeout      time.Duration
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// WithSession presets the session cookie.
func WithSession(name, value string) Option {
	return func(cfg *clientConfig) {
		cfg.sessionName = name
		cfg.sessionValue = value
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.timeout = d
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: server url", common.ErrMissingConfig)
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: server url %q", common.ErrInvalidConfig, baseURL)
	}

	cfg := clientConfig{
		sessionName: DefaultSessionCookie,
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}
	if httpClient.Jar == nil {
		jar, jarErr := cookiejar.New(nil)
		if jarErr != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", jarErr)
		}
		httpClient.Jar = jar
	}
	if cfg.sessionValue != "" {
		httpClient.Jar.SetCookies(u, []*http.Cookie{{
			Name:  cfg.sessionName,
			Value: cfg.sessionValue,
			Path:  "/",
		}})
	}

	// Form posts answer with a redirect on success and re-render the form
	// on failure, so they are sent without following redirects.
	noRedirect := *httpClient
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL:     u,
		httpClient:  httpClient,
		noRedirect:  &noRedirect,
		sessionName: cfg.sessionName,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// resolve joins an absolute request path onto the base URL.
func (c *Client) resolve(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// Fragment fetches a server rendered HTML fragment.
func (c *Client) Fragment(ctx context.Context, path string) (string, error) {
	body, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Raw fetches a JSON document without decoding it.
func (c *Client) Raw(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}
	body, err := c.send(ctx, http.MethodPost, path, bytes.NewReader(encoded), "application/json")
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	body, err := c.send(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// SessionCookie returns the session cookie the client currently holds.
func (c *Client) SessionCookie() string {
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == c.sessionName {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	status, data, err := c.do(ctx, c.httpClient, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &common.StatusError{URL: path, StatusCode: status}
	}
	return data, nil
}

// do performs one request with hc and returns the status and body.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	target := c.resolve(path)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %s %s: %v", common.ErrTransport, method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	slog.Debug("Backend request finished",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading %s: %v", common.ErrTransport, path, err)
	}
	return resp.StatusCode, data, nil
}

func decode(path string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrMalformedResponse, path, err)
	}
	return nil
}
