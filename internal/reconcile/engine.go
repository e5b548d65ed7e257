package reconcile

import (
	"fmt"
	"math"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

const (
	criticalRatio   = 0.4
	sufficientRatio = 1.0
)

// Engine merges snapshot records with point forecasts into reconciled records.
// It holds no state and is safe for concurrent use.
type Engine struct{}

// NewEngine creates a reconciliation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Result is the outcome of reconciling a whole snapshot.
type Result struct {
	Records  []domain.ReconciledRecord
	Rejected []*domain.DataIntegrityError
}

// RejectedRecords projects the rejected errors into response rows.
func (r Result) RejectedRecords() []domain.RejectedRecord {
	out := make([]domain.RejectedRecord, 0, len(r.Rejected))
	for _, e := range r.Rejected {
		out = append(out, e.Rejected())
	}
	return out
}

// ReconcileAll reconciles every record in snapshot order. Records failing
// integrity checks are skipped and collected; forecasts for SKUs absent from
// the snapshot are ignored.
func (e *Engine) ReconcileAll(records []domain.SkuRecord, forecasts map[string]float64) Result {
	res := Result{Records: make([]domain.ReconciledRecord, 0, len(records))}

	for _, rec := range records {
		forecast, ok := forecasts[rec.SKU]
		reconciled, err := e.Reconcile(rec, forecast, ok)
		if err != nil {
			res.Rejected = append(res.Rejected, err)
			continue
		}
		res.Records = append(res.Records, reconciled)
	}

	return res
}

// Reconcile computes the reconciled view of a single record. hasForecast is
// false when the provider returned nothing for the SKU, in which case the
// forecasted demand is zero.
func (e *Engine) Reconcile(rec domain.SkuRecord, forecast float64, hasForecast bool) (domain.ReconciledRecord, *domain.DataIntegrityError) {
	if err := validate(rec); err != nil {
		return domain.ReconciledRecord{}, err
	}

	// 1. Forecasted demand (point forecast truncated toward zero, 0 when absent)
	if !hasForecast {
		forecast = 0
	}
	if math.IsNaN(forecast) || math.IsInf(forecast, 0) || forecast < 0 {
		return domain.ReconciledRecord{}, integrityError(rec.SKU, "invalid point forecast %v", forecast)
	}
	forecasted := int(forecast)

	// 2. Required stock: the baseline is a floor the forecast never lowers
	required := RequiredStock(forecasted, rec.BaselineRequiredStock)

	// 3. Stock ratio with a zero requirement treated as 1
	ratio := StockRatio(rec.CurrentStock, required)

	return domain.ReconciledRecord{
		SkuRecord:        rec,
		ForecastedDemand: forecasted,
		RequiredStock:    required,
		StockRatio:       ratio,
		RiskTier:         ClassifyTier(ratio),
		PriceAction:      RecommendPrice(forecast, rec.CurrentStock),
		Reorder:          rec.CurrentStock < required,
	}, nil
}

// RequiredStock is the larger of the forecast and the baseline.
func RequiredStock(forecasted, baseline int) int {
	if forecasted > baseline {
		return forecasted
	}
	return baseline
}

// StockRatio divides current by required stock, substituting 1 for a zero requirement.
func StockRatio(current, required int) float64 {
	if required == 0 {
		required = 1
	}
	return float64(current) / float64(required)
}

// ClassifyTier buckets a stock ratio. Buckets are closed on the lower bound,
// so 0.4 is Low and 1.0 is Sufficient.
func ClassifyTier(ratio float64) domain.RiskTier {
	switch {
	case ratio < criticalRatio:
		return domain.RiskCritical
	case ratio < sufficientRatio:
		return domain.RiskLow
	default:
		return domain.RiskSufficient
	}
}

// RecommendPrice suggests lowering the price when stock exceeds the raw,
// untruncated forecast.
func RecommendPrice(forecast float64, current int) domain.PriceAction {
	if forecast < float64(current) {
		return domain.LowerPrice
	}
	return domain.HoldPrice
}

func validate(rec domain.SkuRecord) *domain.DataIntegrityError {
	switch {
	case rec.SKU == "":
		return integrityError(rec.SKU, "missing sku")
	case rec.CurrentStock < 0:
		return integrityError(rec.SKU, "negative current_stock %d", rec.CurrentStock)
	case rec.MaxCapacity <= 0:
		return integrityError(rec.SKU, "non-positive max_capacity %d", rec.MaxCapacity)
	case rec.BaselineRequiredStock < 0:
		return integrityError(rec.SKU, "negative required_stock %d", rec.BaselineRequiredStock)
	case rec.Price.IsNegative():
		return integrityError(rec.SKU, "negative price %s", rec.Price.String())
	}
	return nil
}

func integrityError(sku, format string, args ...interface{}) *domain.DataIntegrityError {
	return &domain.DataIntegrityError{SKU: sku, Reason: fmt.Sprintf(format, args...)}
}
