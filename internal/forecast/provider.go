package forecast

import (
	"context"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// Provider supplies point demand forecasts and headline model scores.
// SKUs missing from the returned map are treated as a zero forecast.
type Provider interface {
	ForecastForSkus(ctx context.Context, skus []string) (map[string]float64, error)
	ModelScores(ctx context.Context) (domain.ModelScores, error)
}

// StaticProvider serves a fixed forecast table. Used for demos and tests.
type StaticProvider struct {
	forecasts map[string]float64
	scores    domain.ModelScores
}

func NewStaticProvider(forecasts map[string]float64, scores domain.ModelScores) *StaticProvider {
	if forecasts == nil {
		forecasts = map[string]float64{}
	}
	return &StaticProvider{forecasts: forecasts, scores: scores}
}

func (p *StaticProvider) ForecastForSkus(ctx context.Context, skus []string) (map[string]float64, error) {
	return pick(p.forecasts, skus), nil
}

func (p *StaticProvider) ModelScores(ctx context.Context) (domain.ModelScores, error) {
	return p.scores, nil
}

// pick returns the subset of table keyed by skus.
func pick(table map[string]float64, skus []string) map[string]float64 {
	out := make(map[string]float64, len(skus))
	for _, sku := range skus {
		if v, ok := table[sku]; ok {
			out[sku] = v
		}
	}
	return out
}
