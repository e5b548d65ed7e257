package aggregate

import (
	"reflect"
	"testing"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/reconcile"
	"github.com/shopspring/decimal"
)

func record(sku, location string, current, baseline, capacity int, price string) domain.SkuRecord {
	return domain.SkuRecord{
		SKU:                   sku,
		ProductName:           "Product " + sku,
		Brand:                 "Acme",
		Category:              "Grocery",
		Location:              location,
		CurrentStock:          current,
		BaselineRequiredStock: baseline,
		MaxCapacity:           capacity,
		Price:                 decimal.RequireFromString(price),
	}
}

func reconcileAll(t *testing.T, records []domain.SkuRecord, forecasts map[string]float64) []domain.ReconciledRecord {
	t.Helper()
	res := reconcile.NewEngine().ReconcileAll(records, forecasts)
	if len(res.Rejected) > 0 {
		t.Fatalf("unexpected rejected records: %+v", res.RejectedRecords())
	}
	return res.Records
}

func TestFleet(t *testing.T) {
	records := reconcileAll(t, []domain.SkuRecord{
		record("SKU1", "Texas", 100, 120, 200, "10"), // Low, reorder
		record("SKU2", "Texas", 50, 60, 200, "20"),   // Low, reorder
		record("SKU3", "Texas", 200, 180, 200, "15"), // Sufficient
		record("SKU4", "Florida", 10, 100, 200, "5"), // Critical, reorder
		record("SKU4", "Ohio", 100, 100, 200, "5"),   // same SKU elsewhere, Sufficient
		record("SKU5", "Ohio", 0, 0, 200, "5"),       // Critical, no reorder
	}, map[string]float64{"SKU2": 80})

	got := Fleet(records)
	want := domain.FleetMetrics{
		TotalSKUs:       5,
		ReorderRequired: 3,
		CriticalItems:   2,
		LowItems:        2,
		SufficientItems: 2,
	}
	if got != want {
		t.Errorf("Fleet() = %+v, want %+v", got, want)
	}
}

func TestCapacityUtilization(t *testing.T) {
	records := reconcileAll(t, []domain.SkuRecord{
		record("SKU1", "Texas", 100, 0, 200, "1"),
		record("SKU2", "Texas", 50, 0, 200, "1"),
		record("SKU3", "Texas", 200, 0, 200, "1"),
	}, nil)

	if got := CapacityUtilization(records); got != 58.33 {
		t.Errorf("CapacityUtilization() = %v, want 58.33", got)
	}
	if got := CapacityUtilization(nil); got != 0 {
		t.Errorf("CapacityUtilization(nil) = %v, want 0", got)
	}
}

func TestRevenueImpact(t *testing.T) {
	records := reconcileAll(t, []domain.SkuRecord{
		record("SKU1", "Texas", 0, 120000, 200, "10.00"), // 1.2M
		record("SKU2", "Texas", 0, 60000, 200, "20.50"),  // 1.23M
		record("SKU3", "Texas", 0, 1000, 200, "0.005"),   // required 2000 -> 10
	}, map[string]float64{"SKU3": 2000})

	if got := RevenueImpact(records); got != 2.43 {
		t.Errorf("RevenueImpact() = %v, want 2.43", got)
	}
}

func TestSpikePercentageAndClassification(t *testing.T) {
	tests := []struct {
		name       string
		forecasted int
		required   int
		wantPct    float64
		wantLevel  domain.DemandLevel
	}{
		{name: "example_high", forecasted: 1000, required: 700, wantPct: 42.86, wantLevel: domain.DemandHigh},
		{name: "moderate", forecasted: 125, required: 100, wantPct: 25, wantLevel: domain.DemandModerate},
		{name: "exactly_thirty_is_moderate", forecasted: 130, required: 100, wantPct: 30, wantLevel: domain.DemandModerate},
		{name: "exactly_twenty_is_mild", forecasted: 120, required: 100, wantPct: 20, wantLevel: domain.DemandMild},
		{name: "exactly_ten_is_mild", forecasted: 110, required: 100, wantPct: 10, wantLevel: domain.DemandMild},
		{name: "below_threshold", forecasted: 105, required: 100, wantPct: 5, wantLevel: domain.DemandNone},
		{name: "zero_required", forecasted: 3, required: 0, wantPct: 300, wantLevel: domain.DemandHigh},
		{name: "negative", forecasted: 50, required: 100, wantPct: -50, wantLevel: domain.DemandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct := SpikePercentage(tt.forecasted, tt.required)
			if pct != tt.wantPct {
				t.Errorf("SpikePercentage() = %v, want %v", pct, tt.wantPct)
			}
			if level := ClassifyDemand(pct); level != tt.wantLevel {
				t.Errorf("ClassifyDemand(%v) = %s, want %s", pct, level, tt.wantLevel)
			}
		})
	}
}

func spikeFixture(t *testing.T) []domain.ReconciledRecord {
	t.Helper()
	return reconcileAll(t, []domain.SkuRecord{
		record("C-2", "California", 10, 100, 500, "1"),
		record("C-1", "California", 10, 200, 500, "1"),
		record("C-3", "California", 10, 400, 500, "1"),
		record("T-1", "Texas", 10, 100, 500, "1"),
		record("T-2", "Texas", 10, 100, 500, "1"),
		record("A-1", "Arizona", 10, 50, 500, "1"),
	}, map[string]float64{
		"C-1": 300, "C-2": 300, "C-3": 400, // California: 1000 vs 700
		"T-1": 104, "T-2": 100, // Texas: 204 vs 200 (2%)
		"A-1": 60, // Arizona: 60 vs 50 (20%)
	})
}

func TestRegionsAndSpikes(t *testing.T) {
	records := spikeFixture(t)

	regions := Regions(records)
	if len(regions) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(regions))
	}
	gotOrder := []string{regions[0].Location, regions[1].Location, regions[2].Location}
	if !reflect.DeepEqual(gotOrder, []string{"Arizona", "California", "Texas"}) {
		t.Errorf("unexpected region order %v", gotOrder)
	}

	spikes := Spikes(records)
	if len(spikes) != 2 {
		t.Fatalf("expected Texas to be suppressed, got %+v", spikes)
	}

	ca := spikes[1]
	if ca.Location != "California" || ca.ForecastedDemand != 1000 || ca.RequiredStock != 700 {
		t.Errorf("unexpected California summary: %+v", ca)
	}
	if ca.SpikePercentage != 42.86 || ca.DemandLevel != domain.DemandHigh {
		t.Errorf("California spike = %v %s, want 42.86 High", ca.SpikePercentage, ca.DemandLevel)
	}
	if !reflect.DeepEqual(ca.TopProducts, []string{"C-3", "C-1", "C-2"}) {
		t.Errorf("unexpected top products %v", ca.TopProducts)
	}

	if spikes[0].Location != "Arizona" || spikes[0].DemandLevel != domain.DemandMild {
		t.Errorf("unexpected Arizona summary: %+v", spikes[0])
	}
}

func TestRegion(t *testing.T) {
	records := spikeFixture(t)

	tx, ok := Region(records, "Texas")
	if !ok {
		t.Fatalf("expected Texas summary")
	}
	if tx.SpikePercentage != 2 || tx.DemandLevel != domain.DemandNone {
		t.Errorf("unexpected Texas summary %+v", tx)
	}

	if _, ok := Region(records, "Nevada"); ok {
		t.Errorf("expected no summary for Nevada")
	}
}

func TestTopProducts_StableTies(t *testing.T) {
	records := []domain.ReconciledRecord{
		{SkuRecord: domain.SkuRecord{SKU: "E"}, ForecastedDemand: 10},
		{SkuRecord: domain.SkuRecord{SKU: "B"}, ForecastedDemand: 50},
		{SkuRecord: domain.SkuRecord{SKU: "D"}, ForecastedDemand: 10},
		{SkuRecord: domain.SkuRecord{SKU: "A"}, ForecastedDemand: 10},
		{SkuRecord: domain.SkuRecord{SKU: "F"}, ForecastedDemand: 70},
		{SkuRecord: domain.SkuRecord{SKU: "C"}, ForecastedDemand: 10},
		{SkuRecord: domain.SkuRecord{SKU: "G"}, ForecastedDemand: 1},
	}

	want := []string{"F", "B", "A", "C", "D"}
	for i := 0; i < 3; i++ {
		if got := TopProducts(records, TopProductLimit); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: TopProducts() = %v, want %v", i, got, want)
		}
	}

	if records[0].SKU != "E" {
		t.Errorf("TopProducts must not reorder its input")
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	records := spikeFixture(t)

	first := Spikes(records)
	second := Spikes(records)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Spikes() not idempotent:\n%+v\n%+v", first, second)
	}
	if Fleet(records) != Fleet(records) {
		t.Errorf("Fleet() not idempotent")
	}
}

func TestDashboard(t *testing.T) {
	records := spikeFixture(t)

	got := Dashboard(records, domain.ModelScores{Accuracy: 92.456, SeasonalTrendPct: 23})

	if got.TotalSKUs != 6 {
		t.Errorf("TotalSKUs = %d, want 6", got.TotalSKUs)
	}
	if got.XGBForecast.Status != "Optimal" || got.XGBForecast.Accuracy != 92.46 {
		t.Errorf("unexpected forecast block %+v", got.XGBForecast)
	}
	if got.ProphetSeasonality.Status != "Alert" || got.ProphetSeasonality.DemandIncrease != "+23% demand" {
		t.Errorf("unexpected seasonality block %+v", got.ProphetSeasonality)
	}
	if got.TrendSpike.Items != 2 || got.TrendSpike.Status != "Action" {
		t.Errorf("unexpected trend spike block %+v", got.TrendSpike)
	}

	quiet := Dashboard(nil, domain.ModelScores{Accuracy: 80, SeasonalTrendPct: 5})
	if quiet.XGBForecast.Status != "Warning" || quiet.ProphetSeasonality.Status != "Stable" || quiet.TrendSpike.Status != "None" {
		t.Errorf("unexpected quiet dashboard %+v", quiet)
	}
}
