package forecast

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

func TestStaticProvider_PicksRequestedSkus(t *testing.T) {
	p := NewStaticProvider(map[string]float64{"A": 10, "B": 20.5}, domain.ModelScores{Accuracy: 91})

	got, err := p.ForecastForSkus(context.Background(), []string{"B", "C"})
	if err != nil {
		t.Fatalf("ForecastForSkus() error = %v", err)
	}
	if !reflect.DeepEqual(got, map[string]float64{"B": 20.5}) {
		t.Errorf("ForecastForSkus() = %v", got)
	}

	scores, _ := p.ModelScores(context.Background())
	if scores.Accuracy != 91 {
		t.Errorf("ModelScores() = %+v", scores)
	}
}

func TestReadForecastCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]float64
		wantErr bool
	}{
		{
			name:  "basic",
			input: "sku,point_forecast\nSKU1,110\nSKU2,55.4\n",
			want:  map[string]float64{"SKU1": 110, "SKU2": 55.4},
		},
		{
			name:  "reordered_columns_and_extra",
			input: "model,forecast,sku\nxgb,12,A\nxgb,7.5,B\n",
			want:  map[string]float64{"A": 12, "B": 7.5},
		},
		{
			name:  "blank_sku_skipped",
			input: "sku,point_forecast\n,5\nA,1\n",
			want:  map[string]float64{"A": 1},
		},
		{
			name:  "negative_kept_for_engine",
			input: "sku,point_forecast\nA,-3\n",
			want:  map[string]float64{"A": -3},
		},
		{
			name:  "empty_file",
			input: "",
			want:  map[string]float64{},
		},
		{
			name:    "missing_column",
			input:   "sku,qty\nA,1\n",
			wantErr: true,
		},
		{
			name:    "bad_number",
			input:   "sku,point_forecast\nA,lots\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadForecastCSV(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadForecastCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadForecastCSV() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCSVProvider_MissingFile(t *testing.T) {
	p := NewCSVProvider(filepath.Join(t.TempDir(), "absent.csv"), domain.ModelScores{})
	if _, err := p.ForecastForSkus(context.Background(), []string{"A"}); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestEventImpact(t *testing.T) {
	src := NewRuleEventSource(nil)

	tests := []struct {
		name            string
		eventType       string
		score           float64
		wantMultiplier  float64
		wantDuration    string
		wantExplanation string
	}{
		{name: "festival", eventType: "festival", score: 8, wantMultiplier: 1.8, wantDuration: "1-2 weeks", wantExplanation: "Bangalore festival surge expected"},
		{name: "conference_case_insensitive", eventType: "Conference", score: 4, wantMultiplier: 1.2, wantDuration: "3-5 days", wantExplanation: "Professional conference in Bangalore"},
		{name: "sports", eventType: "sports", score: 2, wantMultiplier: 1.3, wantDuration: "1 week", wantExplanation: "Major sporting event impact in Bangalore"},
		{name: "concert", eventType: "concert", score: 5, wantMultiplier: 1.4, wantDuration: "2-3 days", wantExplanation: "Concert series driving local demand"},
		{name: "unknown_type", eventType: "parade", score: 9, wantMultiplier: 1.0, wantDuration: "N/A", wantExplanation: "No significant impact"},
		{name: "zero_score", eventType: "festival", score: 0, wantMultiplier: 1.0, wantDuration: "1-2 weeks", wantExplanation: "Bangalore festival surge expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.EventImpact(context.Background(), "Bangalore", tt.eventType, tt.score)
			if err != nil {
				t.Fatalf("EventImpact() error = %v", err)
			}
			if got.DemandMultiplier != tt.wantMultiplier || got.Duration != tt.wantDuration || got.Explanation != tt.wantExplanation {
				t.Errorf("EventImpact() = %+v", got)
			}
		})
	}
}

func TestEventImpact_InvalidScore(t *testing.T) {
	src := NewRuleEventSource(nil)
	for _, score := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := src.EventImpact(context.Background(), "Pune", "concert", score); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("EventImpact(score=%v) error = %v, want ErrInvalidScore", score, err)
		}
	}
}

func TestEventMetadata(t *testing.T) {
	src := NewRuleEventSource(nil)

	got, _ := src.EventMetadata(context.Background(), "chennai")
	if got.Reason != "IPL Match" || got.Duration != "1 week" {
		t.Errorf("EventMetadata(chennai) = %+v", got)
	}

	got, _ = src.EventMetadata(context.Background(), "California")
	if got.Reason != "Detected via ML pattern" || got.Duration != "2 days" {
		t.Errorf("EventMetadata(California) = %+v", got)
	}
}

func TestUpcomingEvents_SortedAndImpactFilled(t *testing.T) {
	src := NewRuleEventSource([]domain.UpcomingEvent{
		{EventName: "Late", EventType: "concert", Region: "Pune", Date: "2025-03-01", Score: 5},
		{EventName: "Early", EventType: "festival", Region: "Delhi", Date: "2025-02-01", Score: 4, ExpectedImpact: "+40%"},
	})

	events, err := src.UpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("UpcomingEvents() error = %v", err)
	}
	if events[0].EventName != "Early" || events[1].EventName != "Late" {
		t.Errorf("events not ordered by date: %+v", events)
	}
	if events[1].ExpectedImpact != "+40%" {
		t.Errorf("derived impact = %q, want +40%%", events[1].ExpectedImpact)
	}
	if events[1].Categories == nil {
		t.Errorf("expected non-nil categories")
	}
}

func TestLoadCalendar(t *testing.T) {
	events, err := LoadCalendar("")
	if err != nil || len(events) != 4 || events[0].EventName != "Diwali Festival" {
		t.Fatalf("LoadCalendar(\"\") = %+v, %v", events, err)
	}

	path := filepath.Join(t.TempDir(), "events.yaml")
	body := `events:
  - event_name: Rodeo
    event_type: Festival
    region: Texas
    date: "2025-02-10"
    score: 6
    categories: [Boots, Snacks]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write calendar: %v", err)
	}

	events, err = LoadCalendar(path)
	if err != nil {
		t.Fatalf("LoadCalendar() error = %v", err)
	}
	want := []domain.UpcomingEvent{{
		EventName:  "Rodeo",
		EventType:  "Festival",
		Region:     "Texas",
		Date:       "2025-02-10",
		Score:      6,
		Categories: []string{"Boots", "Snacks"},
	}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("LoadCalendar() = %+v, want %+v", events, want)
	}

	if _, err := LoadCalendar(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing calendar file")
	}
}
