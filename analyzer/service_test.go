package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServiceRequiresResolver(t *testing.T) {
	if _, err := NewService(nil, nil); err == nil {
		t.Fatal("NewService accepted a nil resolver")
	}
}

func TestServiceAnalyzeAllEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("upc") != "0001" {
			t.Errorf("upc = %q, want normalized 0001", r.URL.Query().Get("upc"))
		}
		fmt.Fprint(w, `{"items":[{"title":"Widget","offers":[
			{"merchant":"Walmart","domain":"walmart.com","price":9.99,"link":"https://www.walmart.com/ip/42"}]}]}`)
	}))
	defer server.Close()

	client := NewCodeLookupClient(testClientConfig(server.URL), nil)
	resolver := NewResolver([]Source{NewCodeLookupSource(client, "walmart.com", nil)}, nil)
	service, err := NewService(resolver, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	items := []InventoryItem{{
		ID:          "X1",
		Description: "WIDGET 12CT",
		Quantity:    "3",
		Code:        "0001.0",
		RawPrice:    "$2.00",
	}}
	results := service.AnalyzeAll(context.Background(), items)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.SupplierPrice != 2.00 {
		t.Errorf("SupplierPrice = %v", r.SupplierPrice)
	}
	if r.Resolved.Price != 9.99 || r.Resolved.Source != SourceCodeLookup {
		t.Errorf("Resolved = %+v", r.Resolved)
	}
	if r.Discount != 80.0 {
		t.Errorf("Discount = %v, want 80.0", r.Discount)
	}
	if r.Category != GoodPrice {
		t.Errorf("Category = %q, want %q", r.Category, GoodPrice)
	}
}

func TestServiceAnalyzeAllUnpricedRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer server.Close()

	client := NewCodeLookupClient(testClientConfig(server.URL), nil)
	resolver := NewResolver([]Source{NewCodeLookupSource(client, "walmart.com", nil)}, nil)
	service, err := NewService(resolver, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	results := service.AnalyzeAll(context.Background(), []InventoryItem{
		{ID: "X2", Description: "MYSTERY ITEM", Code: "9999", RawPrice: "$1.00"},
	})
	r := results[0]
	if r.Resolved.Source != SourceNone || r.Resolved.Price != 0 {
		t.Errorf("Resolved = %+v, want SourceNone", r.Resolved)
	}
	if r.Discount != 0 || r.Category != NoPriceFound {
		t.Errorf("got discount %v category %q, want 0 / NoPriceFound", r.Discount, r.Category)
	}
}

func TestStats(t *testing.T) {
	results := []AnalysisResult{
		{Resolved: Quote{Price: 10}, Category: GoodPrice},
		{Resolved: Quote{Price: 10}, Category: GoodPrice},
		{Resolved: Quote{Price: 10}, Category: BadPrice},
		{Category: NoPriceFound},
	}
	stats := Stats(results)
	if stats.Total != 4 || stats.Priced != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByCategory[GoodPrice] != 2 || stats.ByCategory[BadPrice] != 1 || stats.ByCategory[NoPriceFound] != 1 {
		t.Errorf("ByCategory = %v", stats.ByCategory)
	}
}
