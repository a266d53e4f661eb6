package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"palletiq/inventoryintel/analyzer"
)

// discountTolerance absorbs the one-decimal rounding applied when results
// are written.
const discountTolerance = 0.1

type resultRecord struct {
	ID            string
	SupplierPrice float64
	RetailPrice   float64
	Discount      float64
	Category      string
}

func main() {
	resultsPath := flag.String("results", "inventory_analysis_results.csv", "Results CSV produced by inventory-cli")
	flag.Parse()

	f, err := os.Open(*resultsPath)
	if err != nil {
		logrus.Fatalf("inventory-verify: %v", err)
	}
	defer f.Close()

	records, err := parseResults(f)
	if err != nil {
		logrus.Fatalf("inventory-verify: %v", err)
	}

	problems := verifyRecords(records)
	fmt.Printf("Verified %d rows\n", len(records))
	printDistribution(records)
	if len(problems) > 0 {
		fmt.Printf("\n%d mismatches:\n", len(problems))
		for _, p := range problems {
			fmt.Println("  " + p)
		}
		os.Exit(1)
	}
	fmt.Println("All rows consistent")
}

func parseResults(r io.Reader) ([]resultRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty results file")
	}
	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Inventory ID", "Supplier_Price", "Retail_Price", "Discount_Percentage", "Price_Category"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("results file is missing column %q", required)
		}
	}
	records := make([]resultRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := resultRecord{
			ID:            field(row, cols["Inventory ID"]),
			SupplierPrice: parseFloat(field(row, cols["Supplier_Price"])),
			RetailPrice:   parseFloat(field(row, cols["Retail_Price"])),
			Discount:      parseFloat(field(row, cols["Discount_Percentage"])),
			Category:      field(row, cols["Price_Category"]),
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// verifyRecords recomputes discount and category per row and returns a
// description of every disagreement with the stored values.
func verifyRecords(records []resultRecord) []string {
	var problems []string
	for _, rec := range records {
		expected := analyzer.Discount(rec.SupplierPrice, rec.RetailPrice)
		if math.Abs(expected-rec.Discount) > discountTolerance {
			problems = append(problems, fmt.Sprintf(
				"%s: stored discount %.1f%%, recomputed %.1f%%", rec.ID, rec.Discount, expected))
		}
		if want := analyzer.Categorize(rec.Discount, rec.RetailPrice); string(want) != rec.Category {
			problems = append(problems, fmt.Sprintf(
				"%s: stored category %q, recomputed %q", rec.ID, rec.Category, want))
		}
	}
	return problems
}

func printDistribution(records []resultRecord) {
	counts := map[string]int{}
	for _, rec := range records {
		counts[rec.Category]++
	}
	fmt.Println("Category distribution:")
	for _, cat := range []analyzer.Category{analyzer.GoodPrice, analyzer.OkayPrice, analyzer.BadPrice, analyzer.NoPriceFound} {
		fmt.Printf("  %-15s %d\n", string(cat)+":", counts[string(cat)])
	}
}
