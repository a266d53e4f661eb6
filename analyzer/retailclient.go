package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// RetailClient is the authenticated client for the target retailer's
// catalog API: exact item lookup by product code plus free-text search.
type RetailClient struct {
	itemURL   string
	searchURL string
	signer    *requestSigner
	client    *http.Client
	logger    *logrus.Logger
}

// NewRetailClient constructs the client. It fails only when the private
// key cannot be loaded or parsed; callers should disable the client on
// error rather than abort the run.
func NewRetailClient(creds Credentials, cfg ClientConfig, logger *logrus.Logger) (*RetailClient, error) {
	signer, err := newRequestSigner(creds)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RetailClient{
		itemURL:   cfg.ItemLookupURL,
		searchURL: cfg.SearchURL,
		signer:    signer,
		client:    &http.Client{Timeout: time.Duration(cfg.CatalogTimeoutMS) * time.Millisecond},
		logger:    logger,
	}, nil
}

type catalogResponse struct {
	Items []CatalogItem `json:"items"`
}

// LookupItem fetches the first catalog item matching a product code.
// Transport failures and non-200 responses are logged and reported as a
// miss; they never abort an item's resolution.
func (c *RetailClient) LookupItem(ctx context.Context, code string) (CatalogItem, bool) {
	items, err := c.fetch(ctx, c.itemURL, url.Values{"upc": {code}})
	if err != nil {
		c.logger.WithFields(logrus.Fields{"code": code, "error": err}).Warn("catalog lookup failed")
		return CatalogItem{}, false
	}
	if len(items) == 0 {
		return CatalogItem{}, false
	}
	return items[0], true
}

// Search queries the catalog's free-text search endpoint and returns the
// candidate items.
func (c *RetailClient) Search(ctx context.Context, query string, numItems int) ([]CatalogItem, error) {
	params := url.Values{
		"query":    {query},
		"numItems": {strconv.Itoa(numItems)},
		"format":   {"json"},
	}
	return c.fetch(ctx, c.searchURL, params)
}

func (c *RetailClient) fetch(ctx context.Context, endpoint string, params url.Values) ([]CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	if err := c.signer.sign(req); err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return payload.Items, nil
}
