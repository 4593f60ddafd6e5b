package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/qyinm/gemtui/types"
	"go.uber.org/zap"
)

const userAgent = "gemtui/1.0 (+https://github.com/qyinm/gemtui)"

// Client implements types.ProductSource against the comparison backend's
// REST API. It does not retry or cache.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Compile-time interface check
var _ types.ProductSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets a transport timeout. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for baseURL, e.g. "http://localhost:8000/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches the products matching q.
func (c *Client) ListProducts(ctx context.Context, q types.ProductQuery) ([]types.Product, error) {
	var out []productJSON
	if err := c.do(ctx, http.MethodGet, "/products", encodeQuery(q), &out); err != nil {
		return nil, err
	}
	return toProducts(out), nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (types.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Product{}, ErrMissingID
	}
	var out productJSON
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", &out); err != nil {
		return types.Product{}, err
	}
	return out.toProduct(), nil
}

// RefreshProduct asks the backend to re-scrape the price of one product and
// returns the updated record.
func (c *Client) RefreshProduct(ctx context.Context, id string) (types.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Product{}, ErrMissingID
	}
	var out productJSON
	if err := c.do(ctx, http.MethodPost, "/products/"+url.PathEscape(id)+"/refresh", "", &out); err != nil {
		return types.Product{}, err
	}
	return out.toProduct(), nil
}

// encodeQuery keeps min_price, max_price, category in that order and drops
// unset parameters.
func encodeQuery(q types.ProductQuery) string {
	var parts []string
	if q.MinPrice != nil {
		parts = append(parts, "min_price="+strconv.Itoa(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		parts = append(parts, "max_price="+strconv.Itoa(*q.MaxPrice))
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		parts = append(parts, "category="+url.QueryEscape(c))
	}
	return strings.Join(parts, "&")
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, dest any) error {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	op := method + " " + path

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.String("query", rawQuery),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return &RequestFailedError{Method: method, URL: target, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.logger.Warn("decode failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: "decode " + path, Err: err}
	}
	return nil
}
