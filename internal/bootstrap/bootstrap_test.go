package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/warehouseiq/internal/alerts"
	"github.com/andresuchdata/warehouseiq/internal/config"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	return &config.Config{
		Inventory: config.InventoryConfig{
			Source: "csv",
			CSVPath: writeFile(t, dir, "inventory.csv",
				"sku,product_name,brand,category,location,current_stock,required_stock,max_capacity,price\n"+
					"S1,Widget,Acme,Tools,Austin,50,60,100,10\n"+
					"S2,Gadget,Acme,Tools,Austin,200,180,300,5\n"),
		},
		Forecast: config.ForecastConfig{
			Provider: "csv",
			CSVPath:  writeFile(t, dir, "forecasts.csv", "sku,point_forecast\nS1,80\nS2,150\n"),
			Accuracy: 95,
		},
		Geocode: config.GeocodeConfig{Provider: "noop"},
	}
}

func TestNew_CSVSources(t *testing.T) {
	app, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if app.Store != nil {
		t.Errorf("expected no object storage without an endpoint")
	}

	metrics, err := app.Service.DashboardMetrics(context.Background())
	if err != nil {
		t.Fatalf("DashboardMetrics() error = %v", err)
	}
	if metrics.TotalSKUs != 2 || metrics.ReorderRequired != 1 {
		t.Errorf("unexpected metrics %+v", metrics)
	}
	if metrics.XGBForecast.Status != "Optimal" {
		t.Errorf("xgb status = %q, want Optimal", metrics.XGBForecast.Status)
	}
}

func TestNew_InvalidSources(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown inventory source", func(c *config.Config) { c.Inventory.Source = "ftp" }},
		{"s3 without storage", func(c *config.Config) { c.Inventory.Source = "s3" }},
		{"drive without folder", func(c *config.Config) { c.Inventory.Source = "drive" }},
		{"unknown forecast provider", func(c *config.Config) { c.Forecast.Provider = "oracle" }},
		{"missing calendar", func(c *config.Config) { c.Events.CalendarPath = filepath.Join(t.TempDir(), "missing.yaml") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			if _, err := New(context.Background(), cfg); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestPublisher_DefaultsToLog(t *testing.T) {
	app, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if _, ok := app.Publisher().(alerts.LogPublisher); !ok {
		t.Errorf("expected log publisher when alerts are disabled")
	}
	if app.Scheduler() == nil {
		t.Errorf("expected a scheduler")
	}
}
