package analyzer

// SourceKind identifies which lookup source produced a resolved price.
type SourceKind string

const (
	SourceCodeLookup     SourceKind = "code_lookup"
	SourceRetailerDirect SourceKind = "retailer_direct"
	SourceRetailerSearch SourceKind = "retailer_search"
	SourceNone           SourceKind = "none"
)

// Category buckets an item by how deep the supplier discount is.
type Category string

const (
	GoodPrice    Category = "Good Price"
	OkayPrice    Category = "Okay Price"
	BadPrice     Category = "Bad Price"
	NoPriceFound Category = "No Price Found"
)

// InventoryItem is one input row from the supplier spreadsheet. Fields keep
// the raw cell values; normalization happens at the point of use.
type InventoryItem struct {
	ID          string
	Description string
	Quantity    string
	Code        string
	RawPrice    string
}

// Quote is the pipeline's price decision for a single item. Price 0 with a
// non-empty URL is a partial result: a browsable product link that carried
// no usable price.
type Quote struct {
	Price  float64
	URL    string
	Source SourceKind
}

// Offer is one retailer-specific price/link pair from the code lookup
// service.
type Offer struct {
	Merchant string  `json:"merchant"`
	Domain   string  `json:"domain"`
	Price    float64 `json:"price"`
	Link     string  `json:"link"`
}

// Product is the record the code lookup service returns for a matched code.
type Product struct {
	Title  string  `json:"title"`
	Brand  string  `json:"brand"`
	Offers []Offer `json:"offers"`
}

// CatalogItem is one entry from the retailer catalog API.
type CatalogItem struct {
	ItemID    int64   `json:"itemId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brandName"`
	SalePrice float64 `json:"salePrice"`
}

// AnalysisResult combines an input row with its resolved pricing.
type AnalysisResult struct {
	Item          InventoryItem
	SupplierPrice float64
	Resolved      Quote
	Discount      float64
	Category      Category
}

// BatchStats aggregates category counts over one run's results.
type BatchStats struct {
	Total      int
	Priced     int
	ByCategory map[Category]int
}
