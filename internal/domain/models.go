package domain

import "github.com/shopspring/decimal"

// SkuRecord is one row of the inventory snapshot.
type SkuRecord struct {
	SKU                   string          `json:"sku" db:"sku"`
	ProductName           string          `json:"product_name" db:"product_name"`
	Brand                 string          `json:"brand" db:"brand"`
	Category              string          `json:"category" db:"category"`
	Location              string          `json:"location" db:"location"`
	CurrentStock          int             `json:"current_stock" db:"current_stock"`
	BaselineRequiredStock int             `json:"baseline_required_stock" db:"required_stock"`
	MaxCapacity           int             `json:"max_capacity" db:"max_capacity"`
	Price                 decimal.Decimal `json:"price" db:"price"`
}

// InventorySnapshot is what a source loaded. Rows it could not decode are
// carried in Rejected instead of failing the whole load.
type InventorySnapshot struct {
	Records  []SkuRecord
	Rejected []*DataIntegrityError
}

// ForecastSignal is a point demand forecast for a single SKU.
type ForecastSignal struct {
	SKU           string  `json:"sku" db:"sku"`
	PointForecast float64 `json:"point_forecast" db:"point_forecast"`
}

// ReconciledRecord is a SkuRecord merged with its forecast and classified.
// It is derived per request and never persisted.
type ReconciledRecord struct {
	SkuRecord
	ForecastedDemand int         `json:"forecasted_demand"`
	RequiredStock    int         `json:"required_stock"`
	StockRatio       float64     `json:"stock_ratio"`
	RiskTier         RiskTier    `json:"status"`
	PriceAction      PriceAction `json:"price_action"`
	Reorder          bool        `json:"reorder"`
}

// RegionSummary rolls reconciled records up to a location.
type RegionSummary struct {
	Location         string      `json:"region"`
	ForecastedDemand int         `json:"forecasted_demand"`
	RequiredStock    int         `json:"required_stock"`
	SpikePercentage  float64     `json:"spike_percentage"`
	DemandLevel      DemandLevel `json:"demand_level"`
	TopProducts      []string    `json:"top_products"`
}

// FleetMetrics counts reconciled records by tier.
type FleetMetrics struct {
	TotalSKUs       int `json:"total_skus"`
	ReorderRequired int `json:"reorder_required"`
	CriticalItems   int `json:"critical_items"`
	LowItems        int `json:"low_items"`
	SufficientItems int `json:"sufficient_items"`
}

// InventoryFilter narrows the matrix view. Empty fields do not constrain.
type InventoryFilter struct {
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f InventoryFilter) IsEmpty() bool {
	return f.Brand == "" && f.Category == "" && f.Location == ""
}

// Matches reports whether the record passes every set field of the filter.
func (f InventoryFilter) Matches(rec SkuRecord) bool {
	if f.Brand != "" && rec.Brand != f.Brand {
		return false
	}
	if f.Category != "" && rec.Category != f.Category {
		return false
	}
	if f.Location != "" && rec.Location != f.Location {
		return false
	}
	return true
}

// ModelScores are the headline numbers reported by the forecasting models.
type ModelScores struct {
	Accuracy         float64 `json:"accuracy" db:"accuracy"`
	SeasonalTrendPct float64 `json:"seasonal_trend_pct" db:"seasonal_trend_pct"`
	TrendSummary     string  `json:"trend_summary" db:"trend_summary"`
}

// EventMetadata explains why a region is spiking and for how long.
type EventMetadata struct {
	Reason   string `json:"reason"`
	Duration string `json:"duration"`
}

// EventEstimate is the demand impact of a local event.
type EventEstimate struct {
	DemandMultiplier float64 `json:"demand_multiplier"`
	Duration         string  `json:"duration"`
	Explanation      string  `json:"explanation"`
}

// PriceAnalysis compares our shelf price with a competitor's.
type PriceAnalysis struct {
	PriceGapPct      float64 `json:"price_gap"`
	ShouldLowerPrice bool    `json:"should_lower_price"`
	DemandUpliftPct  float64 `json:"demand_uplift"`
}

// UpcomingEvent is an entry of the event calendar.
type UpcomingEvent struct {
	EventName      string   `json:"event_name" mapstructure:"event_name"`
	EventType      string   `json:"event_type" mapstructure:"event_type"`
	Region         string   `json:"region" mapstructure:"region"`
	Date           string   `json:"date" mapstructure:"date"`
	Score          float64  `json:"score" mapstructure:"score"`
	ExpectedImpact string   `json:"expected_impact" mapstructure:"expected_impact"`
	Categories     []string `json:"categories" mapstructure:"categories"`
}

// Coordinates is a resolved map position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
