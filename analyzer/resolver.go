package analyzer

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Source is one price-resolution strategy. Implementations never return an
// error: a source that cannot price an item returns a zero quote and the
// pipeline moves on to the next one.
type Source interface {
	Name() string
	Resolve(ctx context.Context, item InventoryItem) Quote
}

// Resolver walks a priority-ordered list of sources and produces exactly
// one Quote per item. Cheaper, higher-precision sources come first and the
// first positive price wins. A zero-price quote that still carries a URL
// is kept as a partial result and surfaced only when no source at all can
// price the item.
type Resolver struct {
	sources []Source
	logger  *logrus.Logger
}

// NewResolver builds a resolver over the given source order.
func NewResolver(sources []Source, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{sources: sources, logger: logger}
}

// Resolve runs the pipeline for one item.
func (r *Resolver) Resolve(ctx context.Context, item InventoryItem) Quote {
	var partial Quote
	for _, src := range r.sources {
		q := src.Resolve(ctx, item)
		if q.Price > 0 {
			r.logger.WithFields(logrus.Fields{
				"item":   item.ID,
				"source": src.Name(),
				"price":  q.Price,
			}).Debug("price resolved")
			return q
		}
		if q.URL != "" && partial.URL == "" {
			partial = q
		}
	}
	if partial.URL != "" {
		return partial
	}
	return Quote{Source: SourceNone}
}

// CodeLookupSource prices an item through the public code lookup service's
// retailer offers, preferring the target retailer's own offer.
type CodeLookupSource struct {
	client       *CodeLookupClient
	targetDomain string
	logger       *logrus.Logger
}

// NewCodeLookupSource builds the first-priority source.
func NewCodeLookupSource(client *CodeLookupClient, targetDomain string, logger *logrus.Logger) *CodeLookupSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CodeLookupSource{client: client, targetDomain: strings.ToLower(targetDomain), logger: logger}
}

func (s *CodeLookupSource) Name() string { return "code-lookup" }

func (s *CodeLookupSource) Resolve(ctx context.Context, item InventoryItem) Quote {
	code, ok := NormalizeIdentifier(item.Code)
	if !ok {
		s.logger.WithField("item", item.ID).Debug("no usable identifier, skipping code lookup")
		return Quote{}
	}
	product := s.client.Lookup(ctx, code)
	if product == nil {
		return Quote{}
	}
	for _, offer := range product.Offers {
		if offer.Price > 0 && strings.Contains(strings.ToLower(offer.Domain), s.targetDomain) {
			return Quote{Price: offer.Price, URL: offer.Link, Source: SourceCodeLookup}
		}
	}
	for _, offer := range product.Offers {
		if offer.Price > 0 {
			return Quote{Price: offer.Price, URL: offer.Link, Source: SourceCodeLookup}
		}
	}
	for _, offer := range product.Offers {
		if offer.Link != "" {
			return Quote{URL: offer.Link, Source: SourceCodeLookup}
		}
	}
	return Quote{}
}

// RetailerDirectSource prices an item through the authenticated catalog's
// exact code lookup.
type RetailerDirectSource struct {
	client         *RetailClient
	productURLBase string
	storeURL       string
	logger         *logrus.Logger
}

// NewRetailerDirectSource builds the second-priority source.
func NewRetailerDirectSource(client *RetailClient, cfg Config, logger *logrus.Logger) *RetailerDirectSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RetailerDirectSource{
		client:         client,
		productURLBase: cfg.ProductURLBase,
		storeURL:       cfg.StoreURL,
		logger:         logger,
	}
}

func (s *RetailerDirectSource) Name() string { return "retailer-direct" }

func (s *RetailerDirectSource) Resolve(ctx context.Context, item InventoryItem) Quote {
	code, ok := NormalizeIdentifier(item.Code)
	if !ok {
		s.logger.WithField("item", item.ID).Debug("no usable identifier, skipping catalog lookup")
		return Quote{}
	}
	catalogItem, found := s.client.LookupItem(ctx, code)
	if !found || catalogItem.SalePrice <= 0 {
		return Quote{}
	}
	link := s.storeURL + "/search?q=" + url.QueryEscape(code)
	if catalogItem.ItemID != 0 {
		link = s.productURLBase + strconv.FormatInt(catalogItem.ItemID, 10)
	}
	return Quote{Price: catalogItem.SalePrice, URL: link, Source: SourceRetailerDirect}
}

// RetailerSearchSource prices an item through the fuzzy text-search
// fallback using the item's description.
type RetailerSearchSource struct {
	fallback *SearchFallback
}

// NewRetailerSearchSource builds the last-priority source.
func NewRetailerSearchSource(fallback *SearchFallback) *RetailerSearchSource {
	return &RetailerSearchSource{fallback: fallback}
}

func (s *RetailerSearchSource) Name() string { return "retailer-search" }

func (s *RetailerSearchSource) Resolve(ctx context.Context, item InventoryItem) Quote {
	price, link := s.fallback.Search(ctx, item.Description)
	if price <= 0 {
		return Quote{}
	}
	return Quote{Price: price, URL: link, Source: SourceRetailerSearch}
}
