package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// PriceResolver abstracts the resolution pipeline so the service can be
// tested with a fake.
type PriceResolver interface {
	Resolve(ctx context.Context, item InventoryItem) Quote
}

// Service runs the batch analysis: sequential per-item resolution,
// supplier price normalization, discount and category assignment.
type Service struct {
	resolver PriceResolver
	logger   *logrus.Logger
}

// NewService wires the service with its resolver and logger.
func NewService(resolver PriceResolver, logger *logrus.Logger) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{resolver: resolver, logger: logger}, nil
}

// AnalyzeAll processes every item in order and returns one result per
// input row. Items are never skipped: rows that cannot be priced come back
// categorized as NoPriceFound.
func (s *Service) AnalyzeAll(ctx context.Context, items []InventoryItem) []AnalysisResult {
	results := make([]AnalysisResult, 0, len(items))
	for i, item := range items {
		s.logger.WithFields(logrus.Fields{
			"item":     item.ID,
			"progress": fmt.Sprintf("%d/%d", i+1, len(items)),
		}).Info("processing item")
		results = append(results, s.analyze(ctx, item))
	}
	return results
}

func (s *Service) analyze(ctx context.Context, item InventoryItem) AnalysisResult {
	supplier := NormalizePrice(item.RawPrice)
	quote := s.resolver.Resolve(ctx, item)
	discount := Discount(supplier, quote.Price)
	return AnalysisResult{
		Item:          item,
		SupplierPrice: supplier,
		Resolved:      quote,
		Discount:      discount,
		Category:      Categorize(discount, quote.Price),
	}
}

// Stats aggregates category counts over a result set.
func Stats(results []AnalysisResult) BatchStats {
	stats := BatchStats{Total: len(results), ByCategory: make(map[Category]int)}
	for _, r := range results {
		stats.ByCategory[r.Category]++
		if r.Resolved.Price > 0 {
			stats.Priced++
		}
	}
	return stats
}
