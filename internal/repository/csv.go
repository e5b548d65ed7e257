package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// InventoryColumns is the canonical header of an inventory snapshot file.
var InventoryColumns = []string{
	"sku", "product_name", "brand", "category", "location",
	"current_stock", "required_stock", "max_capacity", "price",
}

var requiredInventoryColumns = []string{"sku", "current_stock", "required_stock", "max_capacity"}

// DecodeInventoryCSV parses a snapshot file. Columns are matched by header
// name in any order; descriptive columns and price are optional. A row with a
// malformed number is rejected on its own; only an unreadable file or header
// fails the load.
func DecodeInventoryCSV(r io.Reader) (domain.InventorySnapshot, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InventorySnapshot{Records: []domain.SkuRecord{}}, nil
		}
		return domain.InventorySnapshot{}, fmt.Errorf("error reading inventory header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range requiredInventoryColumns {
		if _, ok := idx[col]; !ok {
			return domain.InventorySnapshot{}, fmt.Errorf("inventory file is missing column %q", col)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	snap := domain.InventorySnapshot{Records: []domain.SkuRecord{}}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return domain.InventorySnapshot{}, fmt.Errorf("error reading inventory line %d: %w", line, err)
		}
		if isBlank(row) {
			continue
		}

		rec := domain.SkuRecord{
			SKU:         field(row, "sku"),
			ProductName: field(row, "product_name"),
			Brand:       field(row, "brand"),
			Category:    field(row, "category"),
			Location:    field(row, "location"),
		}

		if reason := decodeNumbers(&rec, row, field); reason != "" {
			snap.Rejected = append(snap.Rejected, &domain.DataIntegrityError{
				SKU:    rec.SKU,
				Reason: fmt.Sprintf("%s on line %d", reason, line),
			})
			continue
		}

		snap.Records = append(snap.Records, rec)
	}

	return snap, nil
}

// decodeNumbers fills the numeric columns of rec, returning why the row is
// unusable or "" when it decoded cleanly.
func decodeNumbers(rec *domain.SkuRecord, row []string, field func([]string, string) string) string {
	ints := []struct {
		name string
		dst  *int
	}{
		{"current_stock", &rec.CurrentStock},
		{"required_stock", &rec.BaselineRequiredStock},
		{"max_capacity", &rec.MaxCapacity},
	}
	for _, col := range ints {
		v, err := parseInt(field(row, col.name))
		if err != nil {
			return fmt.Sprintf("invalid %s: %v", col.name, err)
		}
		*col.dst = v
	}

	if raw := field(row, "price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Sprintf("invalid price %q", raw)
		}
		rec.Price = price
	}
	return ""
}

// EncodeInventoryCSV writes records with the canonical header.
func EncodeInventoryCSV(w io.Writer, records []domain.SkuRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(InventoryColumns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write([]string{
			rec.SKU,
			rec.ProductName,
			rec.Brand,
			rec.Category,
			rec.Location,
			strconv.Itoa(rec.CurrentStock),
			strconv.Itoa(rec.BaselineRequiredStock),
			strconv.Itoa(rec.MaxCapacity),
			rec.Price.String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// parseInt accepts whole numbers written as floats ("120.0"), which
// spreadsheet exports commonly produce.
func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return int(f), nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
