package domain

// XGBForecast reports point-forecast model health.
type XGBForecast struct {
	Accuracy float64 `json:"accuracy"`
	Status   string  `json:"status"` // "Optimal" above 90% accuracy, otherwise "Warning"
}

// ProphetSeasonality reports the seasonal trend detected by the forecaster.
type ProphetSeasonality struct {
	TrendSummary   string `json:"trend_summary"`
	DemandIncrease string `json:"demand_increase"`
	Status         string `json:"status"`
}

// TrendSpike reports how many regions are spiking.
type TrendSpike struct {
	Items  int    `json:"items"`
	Status string `json:"status"`
}

// DashboardMetrics is the fleet-wide dashboard header. It always covers the
// whole snapshot regardless of any matrix filter.
type DashboardMetrics struct {
	TotalSKUs           int                `json:"total_skus"`
	ReorderRequired     int                `json:"reorder_required"`
	CapacityUtilization float64            `json:"capacity_utilization"`
	RevenueImpact       float64            `json:"revenue_impact"`
	XGBForecast         XGBForecast        `json:"xgb_forecast"`
	ProphetSeasonality  ProphetSeasonality `json:"prophet_seasonality"`
	TrendSpike          TrendSpike         `json:"trend_spike"`
}

// InventoryItem is one row of the inventory matrix.
type InventoryItem struct {
	SKU              string      `json:"sku"`
	ProductName      string      `json:"product_name"`
	Brand            string      `json:"brand"`
	Category         string      `json:"category"`
	Location         string      `json:"location"`
	CurrentStock     int         `json:"current_stock"`
	ForecastedDemand int         `json:"forecasted_demand"`
	RequiredStock    int         `json:"required_stock"`
	PriceAction      PriceAction `json:"price_action"`
	Status           RiskTier    `json:"status"`
}

// RejectedRecord names a snapshot row that failed integrity checks.
type RejectedRecord struct {
	SKU    string `json:"sku"`
	Reason string `json:"reason"`
}

// InventoryMatrix is the filtered matrix plus any rows rejected while reconciling.
type InventoryMatrix struct {
	Items    []InventoryItem  `json:"items"`
	Total    int              `json:"total"`
	Rejected []RejectedRecord `json:"rejected"`
}

// InventoryMetrics is the matrix header.
type InventoryMetrics = FleetMetrics

// ReorderItem is one SKU whose stock is below its required stock.
type ReorderItem struct {
	SKU           string `json:"sku"`
	ProductName   string `json:"product_name"`
	CurrentStock  int    `json:"current_stock"`
	RequiredStock int    `json:"required_stock"`
}

// ReorderReport lists every SKU needing a reorder, in snapshot order.
type ReorderReport struct {
	TotalReorderItems int           `json:"total_reorder_items"`
	Items             []ReorderItem `json:"items"`
}

// RegionSpikeDetails is the drill-down for a single spiking region.
type RegionSpikeDetails struct {
	DemandLevel     DemandLevel `json:"demand_level"`
	SpikePercentage float64     `json:"spike_percentage"`
	Reason          string      `json:"reason"`
	Duration        string      `json:"duration"`
	TopProducts     []string    `json:"top_products"`
}

// RegionCard is the compact per-region summary.
type RegionCard struct {
	Region           string      `json:"region"`
	SpikePercentage  float64     `json:"spike_percentage"`
	Reason           string      `json:"reason"`
	Duration         string      `json:"duration"`
	DemandLevel      DemandLevel `json:"demand_level"`
	AffectedProducts []string    `json:"affected_products,omitempty"`
}

// GeoOverlayEntry places a spiking region on the map. Lat and Lng are nil
// when the region could not be geocoded.
type GeoOverlayEntry struct {
	Region       string      `json:"region"`
	Lat          *float64    `json:"lat"`
	Lng          *float64    `json:"lng"`
	SpikePercent float64     `json:"spike_percent"`
	DemandLevel  DemandLevel `json:"demand_level"`
	Reason       string      `json:"reason"`
	Duration     string      `json:"duration"`
	Products     []string    `json:"products"`
}
