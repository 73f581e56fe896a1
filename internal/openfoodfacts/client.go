package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	DefaultTimeout = 8 * time.Second

	DefaultSearchLimit = 5

	oneHour     = 60 * 60
	cacheExpire = oneHour * 1
	userAgent   = "fittrack/1.0"
)

// Client talks to the public OpenFoodFacts API. Lookups are best effort:
// any failure (timeout, non-200, broken payload) just means no result.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	cache      *freecache.Cache
}

func NewClient(baseURL string, timeout time.Duration, cacheSizeMB int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cacheSizeMB <= 0 {
		cacheSizeMB = 10
	}

	megabyte := 1024 * 1024
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout: timeout,
		cache:   freecache.NewCache(cacheSizeMB * megabyte),
	}
}

// LookupBarcode returns the product with the given barcode, if OpenFoodFacts
// knows it and it has complete nutrition facts.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*Product, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "openfoodfacts.lookupBarcode")
	defer span.End()
	span.SetAttributes(attribute.String("barcode", barcode))

	if barcode == "" {
		return nil, false
	}

	cacheKey := "barcode::" + barcode
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		product := &Product{}
		if err := json.Unmarshal(cached, product); err == nil {
			log.Tracef("off: barcode %s found in cache", barcode)
			return product, true
		} else {
			log.Errorf("off: unmarshal cached product %s: %s", barcode, err)
		}
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode)))
	if err != nil {
		log.Debugf("off: lookup barcode %s: %s", barcode, err)
		return nil, false
	}

	product, ok := normalizeProduct(gjson.GetBytes(body, "product"))
	if !ok {
		return nil, false
	}

	c.setCache(cacheKey, product)
	return product, true
}

// Search returns up to limit products matching the query terms.
// Products without complete nutrition facts are left out.
func (c *Client) Search(ctx context.Context, query string, limit int) []Product {
	ctx, span := tracing.GlobalTracer.Start(ctx, "openfoodfacts.search")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	if query == "" {
		return []Product{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	cacheKey := fmt.Sprintf("search::%d::%s", limit, query)
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var products []Product
		if err := json.Unmarshal(cached, &products); err == nil {
			log.Tracef("off: search [%s] found in cache", query)
			return products
		}
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", fmt.Sprintf("%d", max(5, limit*2)))

	body, err := c.get(ctx, fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode()))
	if err != nil {
		log.Debugf("off: search [%s]: %s", query, err)
		return []Product{}
	}

	products := []Product{}
	gjson.GetBytes(body, "products").ForEach(func(_, value gjson.Result) bool {
		if p, ok := normalizeProduct(value); ok {
			products = append(products, *p)
		}
		return len(products) < limit
	})

	if len(products) > 0 {
		c.setCache(cacheKey, products)
	}
	return products
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed json response")
	}

	return body, nil
}

func (c *Client) setCache(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Errorf("off: marshal cache value for %s: %s", key, err)
		return
	}
	if err := c.cache.Set([]byte(key), raw, cacheExpire); err != nil {
		log.Errorf("off: set cache for %s: %s", key, err)
	}
}
