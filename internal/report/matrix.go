package report

import (
	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// Matrix projects reconciled records through the filter, keeping snapshot order.
func Matrix(records []domain.ReconciledRecord, filter domain.InventoryFilter) []domain.InventoryItem {
	items := make([]domain.InventoryItem, 0, len(records))
	all := filter.IsEmpty()
	for _, rec := range records {
		if !all && !filter.Matches(rec.SkuRecord) {
			continue
		}
		items = append(items, toInventoryItem(rec))
	}
	return items
}

// Reorder lists the records whose current stock is below the reconciled
// required stock, in snapshot order.
func Reorder(records []domain.ReconciledRecord) domain.ReorderReport {
	items := make([]domain.ReorderItem, 0)
	for _, rec := range records {
		if !rec.Reorder {
			continue
		}
		items = append(items, domain.ReorderItem{
			SKU:           rec.SKU,
			ProductName:   rec.ProductName,
			CurrentStock:  rec.CurrentStock,
			RequiredStock: rec.RequiredStock,
		})
	}

	return domain.ReorderReport{
		TotalReorderItems: len(items),
		Items:             items,
	}
}

func toInventoryItem(rec domain.ReconciledRecord) domain.InventoryItem {
	return domain.InventoryItem{
		SKU:              rec.SKU,
		ProductName:      rec.ProductName,
		Brand:            rec.Brand,
		Category:         rec.Category,
		Location:         rec.Location,
		CurrentStock:     rec.CurrentStock,
		ForecastedDemand: rec.ForecastedDemand,
		RequiredStock:    rec.RequiredStock,
		PriceAction:      rec.PriceAction,
		Status:           rec.RiskTier,
	}
}
