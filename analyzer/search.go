package analyzer

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Searcher is the slice of the catalog client the fallback needs; tests
// substitute a fake search service.
type Searcher interface {
	Search(ctx context.Context, query string, numItems int) ([]CatalogItem, error)
}

var (
	reExpirySuffix = regexp.MustCompile(`(?i)\s+(BEST BY|BB|EXP|EXPIRES).*`)
	reDateSuffix   = regexp.MustCompile(`\s+\d+/\d+/\d+.*`)
	reCountToken   = regexp.MustCompile(`(?i)\s+\d+CT\s*`)
	reSizeToken    = regexp.MustCompile(`(?i)\s+\d+(\.\d+)?OZ\s*`)
	reSpaces       = regexp.MustCompile(`\s+`)
)

// CleanQuery strips expiration markers, date suffixes, count and unit-size
// tokens from a product description and bounds its length so the remainder
// is usable as a search query.
func CleanQuery(description string, maxLen int) string {
	cleaned := norm.NFKC.String(description)
	cleaned = reExpirySuffix.ReplaceAllString(cleaned, "")
	cleaned = reDateSuffix.ReplaceAllString(cleaned, "")
	cleaned = reCountToken.ReplaceAllString(cleaned, " ")
	cleaned = reSizeToken.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(reSpaces.ReplaceAllString(cleaned, " "))
	if maxLen > 0 {
		if runes := []rune(cleaned); len(runes) > maxLen {
			cleaned = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return cleaned
}

// CacheStats summarizes fallback cache usage for the end-of-run report.
type CacheStats struct {
	Searches int
	Hits     int
	Misses   int
	HitRate  float64
}

type searchHit struct {
	Price float64
	URL   string
}

// SearchFallback is the last-resort price source. It cleans the free-text
// description, queries the retailer's text search, and keeps the best
// candidate by word-set overlap with the query. Outgoing calls are spaced
// by a minimum inter-call delay; cached queries cost nothing.
type SearchFallback struct {
	searcher       Searcher
	cfg            SearchConfig
	productURLBase string
	storeURL       string
	cache          *lookupCache[searchHit]
	hits           int
	misses         int
	lastCall       time.Time
	now            func() time.Time
	sleep          func(time.Duration)
	logger         *logrus.Logger
}

// NewSearchFallback wires the fallback to a search service using the
// tuning and URL settings in cfg.
func NewSearchFallback(searcher Searcher, cfg Config, logger *logrus.Logger) *SearchFallback {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SearchFallback{
		searcher:       searcher,
		cfg:            cfg.Search,
		productURLBase: cfg.ProductURLBase,
		storeURL:       cfg.StoreURL,
		cache:          newLookupCache[searchHit](),
		now:            time.Now,
		sleep:          time.Sleep,
		logger:         logger,
	}
}

// Search resolves a free-text description to a (price, url) pair. Price 0
// with an empty URL means no qualifying candidate was found.
func (s *SearchFallback) Search(ctx context.Context, description string) (float64, string) {
	query := CleanQuery(description, s.cfg.MaxQueryLen)
	if query == "" || s.searcher == nil {
		return 0, ""
	}
	if hit, found, seen := s.cache.get(query); seen {
		if !found {
			return 0, ""
		}
		return hit.Price, hit.URL
	}
	s.throttle()
	items, err := s.searcher.Search(ctx, query, s.cfg.MaxResults)
	s.lastCall = s.now()
	if err != nil {
		s.logger.WithFields(logrus.Fields{"query": query, "error": err}).Warn("text search failed")
		s.recordMiss(query)
		return 0, ""
	}
	price, link, score := s.bestMatch(query, items)
	if price <= 0 {
		s.logger.WithField("query", query).Debug("no qualifying search candidate")
		s.recordMiss(query)
		return 0, ""
	}
	s.cache.put(query, searchHit{Price: price, URL: link})
	s.hits++
	s.logger.WithFields(logrus.Fields{"query": query, "price": price, "score": score}).Info("search match found")
	return price, link
}

// Stats reports how the query cache performed over the run.
func (s *SearchFallback) Stats() CacheStats {
	stats := CacheStats{Searches: s.cache.len(), Hits: s.hits, Misses: s.misses}
	if stats.Searches > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Searches)
	}
	return stats
}

func (s *SearchFallback) recordMiss(query string) {
	s.cache.putNegative(query)
	s.misses++
}

func (s *SearchFallback) throttle() {
	if s.lastCall.IsZero() {
		return
	}
	minGap := time.Duration(s.cfg.DelayMS) * time.Millisecond
	if elapsed := s.now().Sub(s.lastCall); elapsed < minGap {
		s.sleep(minGap - elapsed)
	}
}

// bestMatch scores every positively priced candidate by the share of query
// words present in its name. A candidate qualifies above MinScore, and
// only a strictly higher score replaces the current best, so the first
// candidate wins ties.
func (s *SearchFallback) bestMatch(query string, items []CatalogItem) (float64, string, float64) {
	queryWords := wordSet(strings.ToLower(query))
	denom := len(queryWords)
	if denom < 1 {
		denom = 1
	}
	var bestPrice, bestScore float64
	var bestURL string
	for _, item := range items {
		if item.SalePrice <= 0 {
			continue
		}
		nameWords := wordSet(strings.ToLower(item.Name))
		common := 0
		for w := range queryWords {
			if _, ok := nameWords[w]; ok {
				common++
			}
		}
		score := float64(common) / float64(denom)
		if score > bestScore && score > s.cfg.MinScore {
			bestScore = score
			bestPrice = item.SalePrice
			bestURL = s.itemURL(item.ItemID)
		}
	}
	return bestPrice, bestURL, bestScore
}

func (s *SearchFallback) itemURL(itemID int64) string {
	if itemID == 0 {
		return s.storeURL
	}
	return s.productURLBase + strconv.FormatInt(itemID, 10)
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
