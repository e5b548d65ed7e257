package aggregate

import (
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// Fleet counts reconciled records by tier in a single pass. TotalSKUs counts
// distinct SKU identifiers; ReorderRequired counts records whose stock is
// below their reconciled required stock, matching the reorder report.
func Fleet(records []domain.ReconciledRecord) domain.FleetMetrics {
	var metrics domain.FleetMetrics
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		seen[rec.SKU] = struct{}{}

		switch rec.RiskTier {
		case domain.RiskCritical:
			metrics.CriticalItems++
		case domain.RiskLow:
			metrics.LowItems++
		case domain.RiskSufficient:
			metrics.SufficientItems++
		}

		if rec.Reorder {
			metrics.ReorderRequired++
		}
	}

	metrics.TotalSKUs = len(seen)
	return metrics
}

// CapacityUtilization is the percentage of total capacity currently stocked,
// rounded to 2 decimals. An empty fleet reports 0.
func CapacityUtilization(records []domain.ReconciledRecord) float64 {
	var stock, capacity int64
	for _, rec := range records {
		stock += int64(rec.CurrentStock)
		capacity += int64(rec.MaxCapacity)
	}
	if capacity == 0 {
		return 0
	}

	return roundFloat(100*float64(stock)/float64(capacity), 2)
}

// RevenueImpact estimates Σ(price × required stock) in millions, rounded to 2 decimals.
func RevenueImpact(records []domain.ReconciledRecord) float64 {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Price.Mul(decimal.NewFromInt(int64(rec.RequiredStock))))
	}

	return total.Div(million).Round(2).InexactFloat64()
}
