package central

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries a unique id per request for server side tracing.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 30 * time.Second
	pingPath       = "/v1/ping"
)

// Connection represents a connection to the central server REST API.
type Connection interface {
	Config() *ClientConfig
	ConnectionOK() bool
	CheckConnectivity(ctx context.Context) bool
	Get(ctx context.Context, path string, params map[string]string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, params map[string]string) error
}

// ClientConfig holds the connection settings of a tenant.
type ClientConfig struct {
	Tenant  string
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Validate checks the configuration is usable.
func (c *ClientConfig) Validate() error {
	if c.Tenant == "" {
		return ErrNoTenant
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.BaseURL)
	}
	return nil
}

// APIClient talks to the central server over REST.
type APIClient struct {
	config *ClientConfig
	http   *resty.Client
	log    *zap.Logger
	connOK bool
	mx     sync.RWMutex
}

var _ Connection = (*APIClient)(nil)

// NewAPIClient returns a new REST client.
func NewAPIClient(cfg *ClientConfig, log *zap.Logger) (*APIClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	a := APIClient{
		config: cfg,
		log:    log.With(zap.String("tenant", cfg.Tenant)),
		connOK: true,
	}
	a.http = resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader(RequestIDHeader, uuid.NewString())
			return nil
		})
	if cfg.Token != "" {
		a.http.SetAuthToken(cfg.Token)
	}

	return &a, nil
}

// Config returns the client configuration.
func (a *APIClient) Config() *ClientConfig {
	return a.config
}

// ConnectionOK returns the outcome of the last request.
func (a *APIClient) ConnectionOK() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.connOK
}

// CheckConnectivity pings the server.
func (a *APIClient) CheckConnectivity(ctx context.Context) bool {
	if err := a.do(ctx, http.MethodGet, pingPath, nil, nil, nil); err != nil {
		if _, ok := StatusOf(err); !ok {
			return false
		}
	}
	return true
}

func (a *APIClient) Get(ctx context.Context, path string, params map[string]string, out any) error {
	return a.do(ctx, http.MethodGet, path, params, nil, out)
}

func (a *APIClient) Post(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPost, path, nil, body, out)
}

func (a *APIClient) Put(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPut, path, nil, body, out)
}

func (a *APIClient) Delete(ctx context.Context, path string, params map[string]string) error {
	return a.do(ctx, http.MethodDelete, path, params, nil, nil)
}

func (a *APIClient) do(ctx context.Context, method, path string, params map[string]string, body, out any) error {
	r := a.http.R().SetContext(ctx)
	if len(params) > 0 {
		r.SetQueryParams(params)
	}
	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		r.SetResult(out)
	}

	start := time.Now()
	resp, err := r.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.setConnOK(false)
		a.log.Warn("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrNoConnection, err)
	}
	a.setConnOK(true)
	a.log.Debug("Request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	if resp.IsError() {
		return &HTTPError{
			Status:  resp.StatusCode(),
			Method:  method,
			Path:    path,
			Message: errorMessage(resp.Body()),
		}
	}

	return nil
}

func (a *APIClient) setConnOK(ok bool) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.connOK = ok
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
