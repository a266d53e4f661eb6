package analyzer

import "sync"

// ColumnCandidates defines possible header names for auto-detecting the
// inventory columns in CSV/TSV/XLSX input.
type ColumnCandidates struct {
	ID          []string `json:"id"`
	Description []string `json:"description"`
	Quantity    []string `json:"quantity"`
	Code        []string `json:"code"`
	Price       []string `json:"price"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		ID:          []string{"Inventory ID", "ID", "SKU", "Item ID", "Item Number"},
		Description: []string{"Description", "Item Description", "Product Name", "Title", "Name"},
		Quantity:    []string{"Qty. Available", "Qty Available", "Qty", "Quantity", "On Hand"},
		Code:        []string{"ITEM UPC", "UPC", "UPC Code", "Barcode", "GTIN"},
		Price:       []string{"Default Price", "Price", "Supplier Price", "Unit Cost", "Cost"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates updates the column detection candidates used during
// auto-detection. Fields left nil fall back to the built-in defaults,
// allowing callers to override only the parts they need.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		ID:          pickStrings(c.ID, defaults.ID),
		Description: pickStrings(c.Description, defaults.Description),
		Quantity:    pickStrings(c.Quantity, defaults.Quantity),
		Code:        pickStrings(c.Code, defaults.Code),
		Price:       pickStrings(c.Price, defaults.Price),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		ID:          cloneStrings(c.ID),
		Description: cloneStrings(c.Description),
		Quantity:    cloneStrings(c.Quantity),
		Code:        cloneStrings(c.Code),
		Price:       cloneStrings(c.Price),
	}
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
