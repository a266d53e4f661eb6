package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const codeLookupUserAgent = "inventory-intel/1.0"

// CodeLookupClient resolves product codes against the public code lookup
// service. Results are cached for the lifetime of the client, misses
// included, so a known bad code is queried at most once per run. A fixed
// delay follows every outgoing request to stay inside the service's free
// tier limits.
type CodeLookupClient struct {
	baseURL string
	delay   time.Duration
	client  *http.Client
	cache   *lookupCache[*Product]
	calls   int
	logger  *logrus.Logger
}

// NewCodeLookupClient constructs a client from the endpoint and timing
// settings in cfg.
func NewCodeLookupClient(cfg ClientConfig, logger *logrus.Logger) *CodeLookupClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CodeLookupClient{
		baseURL: cfg.CodeLookupURL,
		delay:   time.Duration(cfg.CodeLookupDelayMS) * time.Millisecond,
		client:  &http.Client{Timeout: time.Duration(cfg.CodeLookupTimeoutMS) * time.Millisecond},
		cache:   newLookupCache[*Product](),
		logger:  logger,
	}
}

// Calls reports how many network requests the client has issued.
func (c *CodeLookupClient) Calls() int { return c.calls }

type codeLookupResponse struct {
	Items []Product `json:"items"`
}

// Lookup returns the product record for a canonical code, or nil when the
// service has no match. Transport failures and non-200 responses are
// logged, treated as not found, and cached so they are not retried within
// the run.
func (c *CodeLookupClient) Lookup(ctx context.Context, code string) *Product {
	if product, found, seen := c.cache.get(code); seen {
		if !found {
			return nil
		}
		return product
	}
	product := c.fetch(ctx, code)
	if product == nil {
		c.cache.putNegative(code)
	} else {
		c.cache.put(code, product)
	}
	time.Sleep(c.delay)
	return product
}

func (c *CodeLookupClient) fetch(ctx context.Context, code string) *Product {
	endpoint := c.baseURL + "?upc=" + url.QueryEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"code": code, "error": err}).Warn("code lookup: build request")
		return nil
	}
	req.Header.Set("User-Agent", codeLookupUserAgent)
	req.Header.Set("Accept", "application/json")
	c.calls++
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"code": code, "error": err}).Warn("code lookup failed")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{"code": code, "status": resp.StatusCode}).Debug("code lookup: non-200 response")
		return nil
	}
	var payload codeLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.WithFields(logrus.Fields{"code": code, "error": err}).Warn("code lookup: decode response")
		return nil
	}
	if len(payload.Items) == 0 {
		return nil
	}
	return &payload.Items[0]
}
