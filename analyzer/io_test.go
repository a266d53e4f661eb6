package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleCSV = `Inventory ID,Description,Qty. Available,ITEM UPC,Default Price
X1,GRANOLA BARS,12,036000291452,$2.00
X2,MYSTERY ITEM,3,nan,$1.50
,,,,
`

func TestParseInventoryFileAutoDetect(t *testing.T) {
	path := writeTempFile(t, "inventory.csv", sampleCSV)
	items, err := ParseInventoryFile(path)
	if err != nil {
		t.Fatalf("ParseInventoryFile: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (blank row skipped)", len(items))
	}
	want := InventoryItem{ID: "X1", Description: "GRANOLA BARS", Quantity: "12", Code: "036000291452", RawPrice: "$2.00"}
	if items[0] != want {
		t.Errorf("items[0] = %+v, want %+v", items[0], want)
	}
	if items[1].Code != "nan" {
		t.Errorf("items[1].Code = %q, raw cell should be preserved", items[1].Code)
	}
}

func TestParseInventoryFileExplicitIndexColumns(t *testing.T) {
	path := writeTempFile(t, "inventory.csv", "A,B,C\nfoo,BAR DESC,9.99\n")
	items, err := ParseInventoryFileWithOptions(path, InputParseOptions{
		IDColumn:          "#1",
		DescriptionColumn: "#2",
		PriceColumn:       "#3",
	})
	if err != nil {
		t.Fatalf("ParseInventoryFileWithOptions: %v", err)
	}
	// Index mappings don't imply a header row, so both rows are data.
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[1].ID != "foo" || items[1].Description != "BAR DESC" || items[1].RawPrice != "9.99" {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestParseInventoryFileUnknownColumn(t *testing.T) {
	path := writeTempFile(t, "inventory.csv", sampleCSV)
	if _, err := ParseInventoryFileWithOptions(path, InputParseOptions{CodeColumn: "No Such Column"}); err == nil {
		t.Fatal("expected an error for an unknown explicit column")
	}
}

func TestParseInventoryFileUnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "inventory.json", "{}")
	if _, err := ParseInventoryFile(path); err == nil {
		t.Fatal("expected an error for unsupported extension")
	}
}

func TestReadInputFileMetadata(t *testing.T) {
	path := writeTempFile(t, "inventory.csv", sampleCSV)
	meta, err := ReadInputFileMetadata(path)
	if err != nil {
		t.Fatalf("ReadInputFileMetadata: %v", err)
	}
	if len(meta.Columns) != 5 {
		t.Fatalf("columns = %v", meta.Columns)
	}
	if meta.Suggested.CodeColumn != "ITEM UPC" || meta.Suggested.PriceColumn != "Default Price" {
		t.Errorf("suggested = %+v", meta.Suggested)
	}
}

func sampleResults() []AnalysisResult {
	return []AnalysisResult{
		{
			Item:          InventoryItem{ID: "X1", Description: "GRANOLA BARS", Quantity: "12", Code: "036000291452", RawPrice: "$2.00"},
			SupplierPrice: 2.00,
			Resolved:      Quote{Price: 9.99, URL: "https://www.walmart.com/ip/42", Source: SourceCodeLookup},
			Discount:      80.0,
			Category:      GoodPrice,
		},
		{
			Item:     InventoryItem{ID: "X2", Description: "MYSTERY ITEM", RawPrice: "$1.50"},
			Resolved: Quote{Source: SourceNone},
			Category: NoPriceFound,
		},
	}
}

func TestWriteResultsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteResults(path, sampleResults()); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if lines[0] != strings.Join(resultHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2.00,https://www.walmart.com/ip/42,9.99,80.0,Good Price") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "0.00,,0.00,0.0,No Price Found") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteResultsXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteResults(path, sampleResults()); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	rows, err := readXLSXRows(path)
	if err != nil {
		t.Fatalf("readXLSXRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Inventory ID" || rows[0][9] != "Price_Category" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][9] != "Good Price" || rows[2][9] != "No Price Found" {
		t.Errorf("categories = %q, %q", rows[1][9], rows[2][9])
	}
}
