package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// OutputFormat selects the columns written by WriteCSV.
type OutputFormat string

const (
	FormatMatrix  OutputFormat = "matrix"  // full inventory matrix
	FormatReorder OutputFormat = "reorder" // sku, product_name, current_stock, required_stock
)

// MatrixColumns is the fixed column order of the inventory export.
var MatrixColumns = []string{
	"sku", "product_name", "brand", "category", "location",
	"current_stock", "forecasted_demand", "required_stock",
	"status", "price_action",
}

// ReorderColumns is the column order of the reorder export.
var ReorderColumns = []string{"sku", "product_name", "current_stock", "required_stock"}

// Export returns the same rows as Matrix, as CSV records without a header.
func Export(records []domain.ReconciledRecord, filter domain.InventoryFilter) [][]string {
	items := Matrix(records, filter)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.SKU,
			item.ProductName,
			item.Brand,
			item.Category,
			item.Location,
			strconv.Itoa(item.CurrentStock),
			strconv.Itoa(item.ForecastedDemand),
			strconv.Itoa(item.RequiredStock),
			string(item.Status),
			string(item.PriceAction),
		})
	}
	return rows
}

// ReorderRows returns the reorder report as CSV records without a header.
func ReorderRows(report domain.ReorderReport) [][]string {
	rows := make([][]string, 0, len(report.Items))
	for _, item := range report.Items {
		rows = append(rows, []string{
			item.SKU,
			item.ProductName,
			strconv.Itoa(item.CurrentStock),
			strconv.Itoa(item.RequiredStock),
		})
	}
	return rows
}

// WriteCSV writes a header row for format followed by rows.
func WriteCSV(w io.Writer, format OutputFormat, rows [][]string) error {
	var header []string
	switch format {
	case FormatMatrix:
		header = MatrixColumns
	case FormatReorder:
		header = ReorderColumns
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
