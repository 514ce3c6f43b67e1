// Package products provides a client for the product metadata lookup API.
// Lookups degrade gracefully: any failure, after bounded retries, yields an
// empty metadata object rather than an error.
package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/sales-cli/internal/resilience"
)

const userAgent = "sales-cli/1.0"

// Metadata is the structured product description returned by the API.
// Empty (but non-nil) when the product is unknown or the lookup failed.
type Metadata map[string]any

// Client defines the product metadata lookup operation.
type Client interface {
	// GetProductInfo returns metadata for a product id. Results are memoized
	// per id for the lifetime of the client; repeat calls never re-issue a
	// request, and failed lookups are cached as empty metadata.
	GetProductInfo(ctx context.Context, productID string) Metadata
}

// Option configures the products client.
type Option func(*httpClient)

// WithBaseURL sets a custom endpoint base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithRateLimit sets the outbound request rate limit.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
	limiter *rate.Limiter

	mu    sync.Mutex
	cache map[string]Metadata
}

// NewClient creates a product metadata client against the public endpoint.
func NewClient(opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	// Every lookup failure here (transport, status, body) is worth retrying.
	retry.ShouldRetry = func(error) bool { return true }
	retry.OnRetry = resilience.RetryLogger("products", "get_product_info")

	c := &httpClient{
		baseURL: "https://dummyjson.com/products",
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry:   retry,
		limiter: rate.NewLimiter(10, 10),
		cache:   make(map[string]Metadata),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) GetProductInfo(ctx context.Context, productID string) Metadata {
	c.mu.Lock()
	if meta, ok := c.cache[productID]; ok {
		c.mu.Unlock()
		return meta
	}
	c.mu.Unlock()

	numeric := extractDigits(productID)
	if numeric == "" {
		return c.commit(productID, Metadata{})
	}
	id, err := strconv.Atoi(numeric)
	if err != nil {
		return c.commit(productID, Metadata{})
	}

	meta, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (Metadata, error) {
		return c.fetch(ctx, id)
	})
	if err != nil {
		return c.commit(productID, Metadata{})
	}
	return c.commit(productID, meta)
}

// commit stores the outcome for an id exactly once. A concurrent first lookup
// may race to this point; the first write wins so both callers observe one
// consistent result.
func (c *httpClient) commit(productID string, meta Metadata) Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.cache[productID]; ok {
		return existing
	}
	c.cache[productID] = meta
	return meta
}

func (c *httpClient) fetch(ctx context.Context, id int) (Metadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "products: rate limiter wait")
	}

	url := fmt.Sprintf("%s/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "products: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "products: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "products: read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resilience.NewTransientError(
			eris.Errorf("products: status %d from %s", resp.StatusCode, url),
			resp.StatusCode,
		)
	}

	var meta Metadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, eris.Wrap(err, "products: decode body")
	}
	if meta == nil {
		meta = Metadata{}
	}
	return meta, nil
}

// extractDigits concatenates every decimal digit of s in order.
func extractDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
