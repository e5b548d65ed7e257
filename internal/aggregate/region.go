package aggregate

import (
	"sort"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

const (
	// SpikeThreshold is the minimum spike percentage worth alerting on.
	SpikeThreshold = 10.0

	highSpike     = 30.0
	moderateSpike = 20.0

	// TopProductLimit caps the products listed per region.
	TopProductLimit = 5
)

// ClassifyDemand maps a spike percentage to a demand level. Anything under
// SpikeThreshold is DemandNone.
func ClassifyDemand(spikePct float64) domain.DemandLevel {
	switch {
	case spikePct > highSpike:
		return domain.DemandHigh
	case spikePct > moderateSpike:
		return domain.DemandModerate
	case spikePct >= SpikeThreshold:
		return domain.DemandMild
	default:
		return domain.DemandNone
	}
}

// SpikePercentage compares forecasted demand against required stock.
func SpikePercentage(forecasted, required int) float64 {
	denominator := required
	if denominator < 1 {
		denominator = 1
	}
	return roundFloat(100*float64(forecasted-required)/float64(denominator), 2)
}

// Regions groups records by location and summarises each group, ordered by
// location. The required stock summed per region is the snapshot baseline,
// since the reconciled value is already floored at the forecast and could
// never show a spike.
func Regions(records []domain.ReconciledRecord) []domain.RegionSummary {
	groups := make(map[string][]domain.ReconciledRecord)
	for _, rec := range records {
		groups[rec.Location] = append(groups[rec.Location], rec)
	}

	locations := make([]string, 0, len(groups))
	for loc := range groups {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	summaries := make([]domain.RegionSummary, 0, len(locations))
	for _, loc := range locations {
		summaries = append(summaries, summarize(loc, groups[loc]))
	}

	return summaries
}

// Spikes returns only the regions at or above SpikeThreshold. Sub-threshold
// regions are omitted entirely.
func Spikes(records []domain.ReconciledRecord) []domain.RegionSummary {
	all := Regions(records)
	spikes := make([]domain.RegionSummary, 0, len(all))
	for _, region := range all {
		if region.SpikePercentage < SpikeThreshold {
			continue
		}
		spikes = append(spikes, region)
	}
	return spikes
}

// Region summarises a single location. ok is false when no record belongs to it.
func Region(records []domain.ReconciledRecord, location string) (domain.RegionSummary, bool) {
	var group []domain.ReconciledRecord
	for _, rec := range records {
		if rec.Location == location {
			group = append(group, rec)
		}
	}
	if len(group) == 0 {
		return domain.RegionSummary{}, false
	}
	return summarize(location, group), true
}

// TopProducts returns up to limit SKUs by forecasted demand, highest first,
// with ties broken by SKU ascending.
func TopProducts(records []domain.ReconciledRecord, limit int) []string {
	ranked := make([]domain.ReconciledRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ForecastedDemand != ranked[j].ForecastedDemand {
			return ranked[i].ForecastedDemand > ranked[j].ForecastedDemand
		}
		return ranked[i].SKU < ranked[j].SKU
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}

	top := make([]string, 0, limit)
	for _, rec := range ranked[:limit] {
		top = append(top, rec.SKU)
	}
	return top
}

func summarize(location string, group []domain.ReconciledRecord) domain.RegionSummary {
	var forecasted, required int
	for _, rec := range group {
		forecasted += rec.ForecastedDemand
		required += rec.BaselineRequiredStock
	}

	pct := SpikePercentage(forecasted, required)
	return domain.RegionSummary{
		Location:         location,
		ForecastedDemand: forecasted,
		RequiredStock:    required,
		SpikePercentage:  pct,
		DemandLevel:      ClassifyDemand(pct),
		TopProducts:      TopProducts(group, TopProductLimit),
	}
}
