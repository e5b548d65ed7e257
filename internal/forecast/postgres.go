package forecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPool connects a pgx pool and verifies it with a ping.
func OpenPool(ctx context.Context, databaseURL string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// PostgresProvider reads the latest published forecast run.
type PostgresProvider struct {
	pool     *pgxpool.Pool
	fallback domain.ModelScores
}

func NewPostgresProvider(pool *pgxpool.Pool, fallback domain.ModelScores) *PostgresProvider {
	return &PostgresProvider{pool: pool, fallback: fallback}
}

func (p *PostgresProvider) ForecastForSkus(ctx context.Context, skus []string) (map[string]float64, error) {
	out := make(map[string]float64, len(skus))
	if len(skus) == 0 {
		return out, nil
	}

	rows, err := p.pool.Query(ctx, `
        SELECT DISTINCT ON (sku) sku, point_forecast
        FROM demand_forecasts
        WHERE sku = ANY($1)
        ORDER BY sku, generated_at DESC
    `, skus)
	if err != nil {
		return nil, fmt.Errorf("query demand forecasts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sku   string
			value float64
		)
		if err := rows.Scan(&sku, &value); err != nil {
			return nil, fmt.Errorf("scan demand forecast: %w", err)
		}
		out[sku] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demand forecasts: %w", err)
	}

	return out, nil
}

// ModelScores returns the newest score row, or the configured fallback when
// no run has been recorded yet.
func (p *PostgresProvider) ModelScores(ctx context.Context) (domain.ModelScores, error) {
	var scores domain.ModelScores
	err := p.pool.QueryRow(ctx, `
        SELECT accuracy, seasonal_trend_pct, COALESCE(trend_summary, '')
        FROM forecast_model_scores
        ORDER BY recorded_at DESC
        LIMIT 1
    `).Scan(&scores.Accuracy, &scores.SeasonalTrendPct, &scores.TrendSummary)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.fallback, nil
	}
	if err != nil {
		return domain.ModelScores{}, fmt.Errorf("query model scores: %w", err)
	}
	return scores, nil
}
