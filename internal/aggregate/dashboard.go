package aggregate

import (
	"fmt"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

const (
	optimalAccuracy    = 90.0
	seasonalAlertTrend = 20.0
	defaultTrendText   = "Q4 holiday season trend detected"
)

// Dashboard builds the fleet-wide dashboard header. records must be the full,
// unfiltered snapshot.
func Dashboard(records []domain.ReconciledRecord, scores domain.ModelScores) domain.DashboardMetrics {
	fleet := Fleet(records)
	spikes := Spikes(records)

	return domain.DashboardMetrics{
		TotalSKUs:           fleet.TotalSKUs,
		ReorderRequired:     fleet.ReorderRequired,
		CapacityUtilization: CapacityUtilization(records),
		RevenueImpact:       RevenueImpact(records),
		XGBForecast:         forecastStatus(scores),
		ProphetSeasonality:  seasonality(scores),
		TrendSpike:          trendSpike(len(spikes)),
	}
}

func forecastStatus(scores domain.ModelScores) domain.XGBForecast {
	status := "Warning"
	if scores.Accuracy > optimalAccuracy {
		status = "Optimal"
	}
	return domain.XGBForecast{Accuracy: roundFloat(scores.Accuracy, 2), Status: status}
}

func seasonality(scores domain.ModelScores) domain.ProphetSeasonality {
	summary := scores.TrendSummary
	if summary == "" {
		summary = defaultTrendText
	}

	status := "Stable"
	if scores.SeasonalTrendPct > seasonalAlertTrend {
		status = "Alert"
	}

	return domain.ProphetSeasonality{
		TrendSummary:   summary,
		DemandIncrease: fmt.Sprintf("%+g%% demand", roundFloat(scores.SeasonalTrendPct, 2)),
		Status:         status,
	}
}

func trendSpike(regions int) domain.TrendSpike {
	status := "None"
	if regions > 0 {
		status = "Action"
	}
	return domain.TrendSpike{Items: regions, Status: status}
}
