package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"palletiq/inventoryintel/analyzer"
)

var reportCategoryOrder = []analyzer.Category{
	analyzer.GoodPrice,
	analyzer.OkayPrice,
	analyzer.BadPrice,
	analyzer.NoPriceFound,
}

// printReport writes the human summary: totals, category distribution,
// best and worst deals, and search cache statistics.
func printReport(w io.Writer, results []analyzer.AnalysisResult, stats *analyzer.CacheStats) {
	batch := analyzer.Stats(results)

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "INVENTORY ANALYSIS REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Total items analyzed: %d\n", batch.Total)
	fmt.Fprintf(w, "Items with retail price: %d\n", batch.Priced)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Price category distribution:")
	for _, cat := range reportCategoryOrder {
		count := batch.ByCategory[cat]
		pct := 0.0
		if batch.Total > 0 {
			pct = float64(count) / float64(batch.Total) * 100
		}
		fmt.Fprintf(w, "  %-15s %4d (%.1f%%)\n", string(cat)+":", count, pct)
	}

	priced := make([]analyzer.AnalysisResult, 0, len(results))
	for _, r := range results {
		if r.Resolved.Price > 0 {
			priced = append(priced, r)
		}
	}
	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].Discount > priced[j].Discount
	})

	if len(priced) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top deals:")
		for i, r := range priced {
			if i >= 10 {
				break
			}
			fmt.Fprintf(w, "  %s: %.1f%% off ($%.2f vs $%.2f retail)\n",
				r.Item.Description, r.Discount, r.SupplierPrice, r.Resolved.Price)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Worst deals:")
		start := len(priced) - 5
		if start < 0 {
			start = 0
		}
		for i := len(priced) - 1; i >= start; i-- {
			r := priced[i]
			fmt.Fprintf(w, "  %s: %.1f%% off ($%.2f vs $%.2f retail)\n",
				r.Item.Description, r.Discount, r.SupplierPrice, r.Resolved.Price)
		}
	}

	if stats != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Search cache: %d queries, %d hits, %d misses (%.0f%% hit rate)\n",
			stats.Searches, stats.Hits, stats.Misses, stats.HitRate*100)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
