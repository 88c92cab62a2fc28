// Package api is a client for the PixelWalker HTTP API: authentication,
// join keys, room types, collections, the lobby and static assets.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*Client)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// WithHTTPClient sets the underlying HTTP client used by the retrying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request and retry logging.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// Client talks to the HTTP API. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	http       *retryablehttp.Client
	limiter    *rate.Limiter
	cache      *lru.TwoQueueCache
	log        logrus.FieldLogger

	mu       sync.RWMutex
	token    string
	email    string
	password string
	loggedIn bool
}

// NewWithToken creates a client from an account token. The client counts as
// authenticated immediately.
func NewWithToken(token string, opts ...Option) (*Client, error) {
	c, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	c.token = token
	c.loggedIn = true
	return c, nil
}

// NewWithAccount creates a client from account details. Authenticate must be
// called before restricted calls such as JoinKey.
func NewWithAccount(email, password string, opts ...Option) (*Client, error) {
	c, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	c.email = email
	c.password = password
	return c, nil
}

func newClient(opts []Option) (*Client, error) {
	c := &Client{
		cfg: DefaultConfig(),
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	cache, err := lru.New2Q(c.cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("api: create cache: %w", err)
	}
	c.cache = cache
	c.limiter = rate.NewLimiter(rate.Limit(c.cfg.RequestsPerSecond), c.cfg.Burst)

	rc := retryablehttp.NewClient()
	if c.httpClient != nil {
		rc.HTTPClient = c.httpClient
	} else {
		rc.HTTPClient.Timeout = c.cfg.Timeout
	}
	rc.RetryMax = c.cfg.RetryMax
	rc.RetryWaitMin = c.cfg.RetryWaitMin
	rc.RetryWaitMax = c.cfg.RetryWaitMax
	rc.Logger = leveledLogger{c.log}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.http = rc
	return c, nil
}

// LoggedIn reports whether the client holds an account token.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (r *response) isJSON() bool {
	return strings.HasPrefix(r.contentType, "application/json")
}

// do performs a request against one of the configured endpoints. A non-nil
// body turns the request into a JSON POST.
func (c *Client) do(ctx context.Context, url string, body any, authenticated bool) (*response, error) {
	if !c.allowed(url) {
		return nil, fmt.Errorf("%w: %s", ErrBadEndpoint, url)
	}

	method := http.MethodGet
	var payload []byte
	if body != nil {
		method = http.MethodPost
		switch b := body.(type) {
		case string:
			payload = []byte(b)
		case []byte:
			payload = b
		default:
			var err error
			if payload, err = json.Marshal(b); err != nil {
				return nil, fmt.Errorf("api: marshal body: %w", err)
			}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	reqID := uuid.New().String()
	req.Header.Set("X-Request-Id", reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}
	c.log.WithFields(logrus.Fields{
		"request_id": reqID,
		"method":     method,
		"url":        url,
		"status":     resp.StatusCode,
	}).Debug("api request")

	if resp.StatusCode == http.StatusForbidden {
		return nil, ErrForbidden
	}
	r := &response{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: data}
	if r.status >= http.StatusBadRequest {
		f := &Failure{Status: r.status, Code: r.status, Message: http.StatusText(r.status)}
		if r.isJSON() {
			_ = json.Unmarshal(data, f)
		}
		return nil, f
	}
	return r, nil
}

func (c *Client) getJSON(ctx context.Context, url string, authenticated bool, dst any) error {
	return c.postJSON(ctx, url, nil, authenticated, dst)
}

func (c *Client) postJSON(ctx context.Context, url string, body any, authenticated bool, dst any) error {
	r, err := c.do(ctx, url, body, authenticated)
	if err != nil {
		return err
	}
	if !r.isJSON() {
		return fmt.Errorf("api: %s: expected JSON, got %q", url, r.contentType)
	}
	if err := json.Unmarshal(r.body, dst); err != nil {
		return fmt.Errorf("api: decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) getBytes(ctx context.Context, url string, authenticated bool) ([]byte, error) {
	r, err := c.do(ctx, url, nil, authenticated)
	if err != nil {
		return nil, err
	}
	if r.isJSON() {
		var f Failure
		if json.Unmarshal(r.body, &f) == nil && f.Message != "" {
			f.Status = r.status
			return nil, &f
		}
	}
	return r.body, nil
}

// allowed reports whether target lies under one of the configured
// endpoints: same scheme and host, and a path at or below the base path.
func (c *Client) allowed(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	for _, base := range []string{c.cfg.APIURL, c.cfg.GameHTTPURL, c.cfg.ClientURL} {
		if base == "" {
			continue
		}
		b, err := url.Parse(base)
		if err != nil {
			continue
		}
		if !strings.EqualFold(u.Scheme, b.Scheme) || !strings.EqualFold(u.Host, b.Host) {
			continue
		}
		prefix := strings.TrimSuffix(b.Path, "/")
		if u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/") {
			return true
		}
	}
	return false
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) fields(kv []interface{}) logrus.FieldLogger {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.log.WithFields(f)
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.fields(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.fields(kv).Info(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.fields(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.fields(kv).Warn(msg) }
