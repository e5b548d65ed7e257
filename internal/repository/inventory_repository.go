package repository

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/storage"
)

// InventoryRepository loads the current inventory snapshot. Records come back
// in snapshot order; rows that cannot be decoded are returned as rejected
// rather than failing the load.
type InventoryRepository interface {
	LoadInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error)
}

// Selecter is the read side of a sqlx handle.
type Selecter interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type inventoryRepository struct {
	db Selecter
}

// NewInventoryRepository reads the snapshot from the inventory_snapshot table.
func NewInventoryRepository(db Selecter) InventoryRepository {
	return &inventoryRepository{db: db}
}

// snapshotRow mirrors inventory_snapshot with its nullable numeric columns.
type snapshotRow struct {
	SKU           string              `db:"sku"`
	ProductName   string              `db:"product_name"`
	Brand         string              `db:"brand"`
	Category      string              `db:"category"`
	Location      string              `db:"location"`
	CurrentStock  sql.NullInt64       `db:"current_stock"`
	RequiredStock sql.NullInt64       `db:"required_stock"`
	MaxCapacity   sql.NullInt64       `db:"max_capacity"`
	Price         decimal.NullDecimal `db:"price"`
}

func (row snapshotRow) record() (domain.SkuRecord, *domain.DataIntegrityError) {
	rec := domain.SkuRecord{
		SKU:                   row.SKU,
		ProductName:           row.ProductName,
		Brand:                 row.Brand,
		Category:              row.Category,
		Location:              row.Location,
		CurrentStock:          int(row.CurrentStock.Int64),
		BaselineRequiredStock: int(row.RequiredStock.Int64),
		MaxCapacity:           int(row.MaxCapacity.Int64),
		Price:                 row.Price.Decimal,
	}

	switch {
	case !row.CurrentStock.Valid:
		return rec, &domain.DataIntegrityError{SKU: row.SKU, Reason: "null current_stock"}
	case !row.RequiredStock.Valid:
		return rec, &domain.DataIntegrityError{SKU: row.SKU, Reason: "null required_stock"}
	case !row.MaxCapacity.Valid:
		return rec, &domain.DataIntegrityError{SKU: row.SKU, Reason: "null max_capacity"}
	}
	return rec, nil
}

func (r *inventoryRepository) LoadInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	query := `
		SELECT
			COALESCE(sku, '') AS sku,
			COALESCE(product_name, '') AS product_name,
			COALESCE(brand, '') AS brand,
			COALESCE(category, '') AS category,
			COALESCE(location, '') AS location,
			current_stock,
			required_stock,
			max_capacity,
			price
		FROM inventory_snapshot
		ORDER BY id
	`

	rows := []snapshotRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("error loading inventory snapshot: %w", err)
	}

	snap := domain.InventorySnapshot{Records: make([]domain.SkuRecord, 0, len(rows))}
	for _, row := range rows {
		rec, rejected := row.record()
		if rejected != nil {
			snap.Rejected = append(snap.Rejected, rejected)
			continue
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

type csvFileRepository struct {
	path string
}

// NewCSVFileRepository reads the snapshot from a local CSV file on every call.
func NewCSVFileRepository(path string) InventoryRepository {
	return &csvFileRepository{path: path}
}

func (r *csvFileRepository) LoadInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("error opening inventory file: %w", err)
	}
	defer f.Close()

	return DecodeInventoryCSV(f)
}

type objectRepository struct {
	store storage.ObjectStorage
	key   string
}

// NewObjectRepository reads the snapshot from a CSV object in S3-compatible storage.
func NewObjectRepository(store storage.ObjectStorage, key string) InventoryRepository {
	return &objectRepository{store: store, key: key}
}

func (r *objectRepository) LoadInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	body, err := r.store.ReadObject(ctx, r.key)
	if err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("error reading inventory object: %w", err)
	}
	return DecodeInventoryCSV(bytes.NewReader(body))
}
