package analyzer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// InputParseOptions allows callers to choose which columns map to item
// fields. Values may be header names or 1-based "#N" indices.
type InputParseOptions struct {
	IDColumn          string
	DescriptionColumn string
	QuantityColumn    string
	CodeColumn        string
	PriceColumn       string
}

// InputFileMetadata provides header information and automatic column
// suggestions for an input file.
type InputFileMetadata struct {
	Columns   []string
	Suggested InputParseOptions
}

// ParseInventoryFile reads an inventory file with automatic column
// detection.
func ParseInventoryFile(path string) ([]InventoryItem, error) {
	return ParseInventoryFileWithOptions(path, InputParseOptions{})
}

// ParseInventoryFileWithOptions reads a CSV, TSV or XLSX inventory file,
// honoring caller provided column mappings.
func ParseInventoryFileWithOptions(path string, opts InputParseOptions) ([]InventoryItem, error) {
	rows, err := readTabularRows(path)
	if err != nil {
		return nil, err
	}
	return buildItems(rows, opts)
}

func readTabularRows(path string) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readDelimitedRows(path, ',')
	case ".tsv":
		return readDelimitedRows(path, '\t')
	case ".xlsx":
		return readXLSXRows(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", ext)
	}
}

func readDelimitedRows(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets in %s", filepath.Base(path))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func buildItems(rows [][]string, opts InputParseOptions) ([]InventoryItem, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	resolved, skipHeader, err := resolveInputColumns(header, opts)
	if err != nil {
		return nil, err
	}
	start := 0
	if skipHeader {
		start = 1
	}
	items := make([]InventoryItem, 0, len(rows)-start)
	for _, row := range rows[start:] {
		item := InventoryItem{
			ID:          cellAt(row, resolved.ID.Index),
			Description: cellAt(row, resolved.Description.Index),
			Quantity:    cellAt(row, resolved.Quantity.Index),
			Code:        cellAt(row, resolved.Code.Index),
			RawPrice:    cellAt(row, resolved.Price.Index),
		}
		if item.ID == "" && item.Description == "" && item.Code == "" && item.RawPrice == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

type columnResult struct {
	Index      int
	FromHeader bool
	HeaderName string
}

type resolvedColumns struct {
	ID          columnResult
	Description columnResult
	Quantity    columnResult
	Code        columnResult
	Price       columnResult
}

func resolveInputColumns(header []string, opts InputParseOptions) (resolvedColumns, bool, error) {
	res := resolvedColumns{
		ID:          columnResult{Index: -1},
		Description: columnResult{Index: -1},
		Quantity:    columnResult{Index: -1},
		Code:        columnResult{Index: -1},
		Price:       columnResult{Index: -1},
	}
	var err error
	candidates := getColumnCandidates()
	if res.ID, err = pickColumn(header, opts.IDColumn, candidates.ID); err != nil {
		return res, false, err
	}
	if res.Description, err = pickColumn(header, opts.DescriptionColumn, candidates.Description); err != nil {
		return res, false, err
	}
	if res.Quantity, err = pickColumn(header, opts.QuantityColumn, candidates.Quantity); err != nil {
		return res, false, err
	}
	if res.Code, err = pickColumn(header, opts.CodeColumn, candidates.Code); err != nil {
		return res, false, err
	}
	if res.Price, err = pickColumn(header, opts.PriceColumn, candidates.Price); err != nil {
		return res, false, err
	}
	skipHeader := res.ID.FromHeader || res.Description.FromHeader || res.Quantity.FromHeader ||
		res.Code.FromHeader || res.Price.FromHeader
	if !skipHeader && res.Description.Index < 0 && len(header) > 0 {
		res.Description.Index = 0
	}
	res.ID.HeaderName = headerNameForIndex(header, res.ID.Index, res.ID.FromHeader)
	res.Description.HeaderName = headerNameForIndex(header, res.Description.Index, res.Description.FromHeader)
	res.Quantity.HeaderName = headerNameForIndex(header, res.Quantity.Index, res.Quantity.FromHeader)
	res.Code.HeaderName = headerNameForIndex(header, res.Code.Index, res.Code.FromHeader)
	res.Price.HeaderName = headerNameForIndex(header, res.Price.Index, res.Price.FromHeader)
	return res, skipHeader, nil
}

func pickColumn(header []string, explicit string, candidates []string) (columnResult, error) {
	res := columnResult{Index: -1}
	if strings.TrimSpace(explicit) != "" {
		idx, fromHeader, err := matchExplicitColumn(header, explicit)
		if err != nil {
			return res, err
		}
		res.Index = idx
		res.FromHeader = fromHeader
		return res, nil
	}
	idx := findColumn(header, candidates)
	if idx >= 0 {
		res.Index = idx
		res.FromHeader = true
	}
	return res, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	if trimmed == "" {
		return -1, false, nil
	}
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func headerNameForIndex(header []string, idx int, fromHeader bool) string {
	if idx < 0 {
		return ""
	}
	if fromHeader && idx < len(header) {
		if name := header[idx]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%d", idx+1)
}

// ReadInputFileMetadata returns header information and automatic column
// suggestions for structured files.
func ReadInputFileMetadata(path string) (InputFileMetadata, error) {
	meta := InputFileMetadata{}
	rows, err := readTabularRows(path)
	if err != nil {
		return meta, err
	}
	if len(rows) == 0 {
		return meta, nil
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	meta.Columns = header
	resolved, _, err := resolveInputColumns(header, InputParseOptions{})
	if err == nil {
		meta.Suggested = InputParseOptions{
			IDColumn:          resolved.ID.HeaderName,
			DescriptionColumn: resolved.Description.HeaderName,
			QuantityColumn:    resolved.Quantity.HeaderName,
			CodeColumn:        resolved.Code.HeaderName,
			PriceColumn:       resolved.Price.HeaderName,
		}
	}
	return meta, nil
}

var resultHeader = []string{
	"Inventory ID", "Description", "Qty. Available", "ITEM UPC", "Default Price",
	"Supplier_Price", "Market_Comp", "Retail_Price", "Discount_Percentage", "Price_Category",
}

// WriteResults writes the enriched rows to a CSV or XLSX file depending on
// the output extension.
func WriteResults(path string, results []AnalysisResult) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return writeResultsXLSX(path, results)
	default:
		return writeResultsCSV(path, results)
	}
}

func resultRow(r AnalysisResult) []string {
	return []string{
		r.Item.ID,
		r.Item.Description,
		r.Item.Quantity,
		r.Item.Code,
		r.Item.RawPrice,
		strconv.FormatFloat(r.SupplierPrice, 'f', 2, 64),
		r.Resolved.URL,
		strconv.FormatFloat(r.Resolved.Price, 'f', 2, 64),
		strconv.FormatFloat(r.Discount, 'f', 1, 64),
		string(r.Category),
	}
}

func writeResultsCSV(path string, results []AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := writeCSVRows(f, results); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeCSVRows(w io.Writer, results []AnalysisResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := writer.Write(resultRow(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeResultsXLSX(path string, results []AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for col, name := range resultHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, r := range results {
		for col, value := range resultRow(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("result cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}
