package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

const insertSnapshotRow = `
	INSERT INTO inventory_snapshot
		(sku, product_name, brand, category, location, current_stock, required_stock, max_capacity, price)
	VALUES
		(:sku, :product_name, :brand, :category, :location, :current_stock, :required_stock, :max_capacity, :price)
`

const snapshotBatchSize = 500

// SchemaSQL creates the tables read by the postgres inventory repository and
// forecast provider.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS inventory_snapshot (
	id             BIGSERIAL PRIMARY KEY,
	sku            TEXT NOT NULL,
	product_name   TEXT,
	brand          TEXT,
	category       TEXT,
	location       TEXT,
	current_stock  INTEGER NOT NULL,
	required_stock INTEGER NOT NULL,
	max_capacity   INTEGER NOT NULL,
	price          NUMERIC(14, 4) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS demand_forecasts (
	sku            TEXT NOT NULL,
	point_forecast DOUBLE PRECISION NOT NULL,
	generated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_demand_forecasts_sku ON demand_forecasts (sku, generated_at DESC);

CREATE TABLE IF NOT EXISTS forecast_model_scores (
	accuracy           DOUBLE PRECISION NOT NULL,
	seasonal_trend_pct DOUBLE PRECISION NOT NULL,
	trend_summary      TEXT,
	recorded_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// ReplaceSnapshot swaps the whole inventory snapshot in one transaction so
// readers never observe a partial load.
func (db *DB) ReplaceSnapshot(ctx context.Context, records []domain.SkuRecord) error {
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_snapshot`); err != nil {
			return fmt.Errorf("error clearing inventory snapshot: %w", err)
		}

		for start := 0; start < len(records); start += snapshotBatchSize {
			end := min(start+snapshotBatchSize, len(records))
			if _, err := tx.NamedExecContext(ctx, insertSnapshotRow, records[start:end]); err != nil {
				return fmt.Errorf("error inserting inventory rows %d-%d: %w", start, end, err)
			}
		}
		return nil
	})
}
