package forecast

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// CSVProvider reads point forecasts from a file with a header row holding
// at least "sku" and "point_forecast" columns. The file is re-read on every
// call so a replaced file is picked up without a restart.
type CSVProvider struct {
	path   string
	scores domain.ModelScores
}

func NewCSVProvider(path string, scores domain.ModelScores) *CSVProvider {
	return &CSVProvider{path: path, scores: scores}
}

func (p *CSVProvider) ForecastForSkus(ctx context.Context, skus []string) (map[string]float64, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open forecast file: %w", err)
	}
	defer f.Close()

	table, err := ReadForecastCSV(f)
	if err != nil {
		return nil, err
	}
	return pick(table, skus), nil
}

func (p *CSVProvider) ModelScores(ctx context.Context) (domain.ModelScores, error) {
	return p.scores, nil
}

// ReadForecastCSV decodes a forecast table. Values are kept as read; range
// validation belongs to the reconciliation engine.
func ReadForecastCSV(r io.Reader) (map[string]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]float64{}, nil
		}
		return nil, fmt.Errorf("read forecast header: %w", err)
	}

	skuIdx, valueIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "sku":
			skuIdx = i
		case "point_forecast", "forecast", "forecasted_demand":
			valueIdx = i
		}
	}
	if skuIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("forecast file needs sku and point_forecast columns, got %v", header)
	}

	out := make(map[string]float64)
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read forecast line %d: %w", line, err)
		}

		sku := strings.TrimSpace(row[skuIdx])
		if sku == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid forecast for %s on line %d: %w", sku, line, err)
		}
		out[sku] = value
	}

	return out, nil
}
