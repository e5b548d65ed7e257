package reconcile

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// DefaultElasticity applies when the caller does not send one.
const DefaultElasticity = 1.2

// lowerPriceGapPct is how far above the competitor our price may sit before
// lowering it is recommended.
var lowerPriceGapPct = decimal.NewFromInt(10)

// ErrInvalidPrice is returned for non-positive or non-finite pricing inputs.
var ErrInvalidPrice = errors.New("prices and elasticity must be positive numbers")

// AnalyzePrice measures the gap between our price and a competitor's as a
// percentage of ours. A gap above 10% recommends lowering the price, and the
// expected demand uplift is the gap scaled by elasticity.
func AnalyzePrice(ownPrice, competitorPrice, elasticity float64) (domain.PriceAnalysis, error) {
	for _, v := range []float64{ownPrice, competitorPrice, elasticity} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return domain.PriceAnalysis{}, fmt.Errorf("%w: got %v", ErrInvalidPrice, v)
		}
	}

	own := decimal.NewFromFloat(ownPrice)
	gap := own.Sub(decimal.NewFromFloat(competitorPrice)).Div(own).Mul(decimal.NewFromInt(100))

	out := domain.PriceAnalysis{
		PriceGapPct:      gap.Round(2).InexactFloat64(),
		ShouldLowerPrice: gap.GreaterThan(lowerPriceGapPct),
	}
	if out.ShouldLowerPrice {
		out.DemandUpliftPct = gap.Abs().Mul(decimal.NewFromFloat(elasticity)).Round(2).InexactFloat64()
	}
	return out, nil
}
