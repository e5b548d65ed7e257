package report

import (
	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// RegionSignal is a region summary enriched by the event and geocode collaborators.
type RegionSignal struct {
	Summary     domain.RegionSummary
	Event       domain.EventMetadata
	Coordinates *domain.Coordinates
}

// RegionDetails projects a single region signal into its drill-down shape.
func RegionDetails(signal RegionSignal) domain.RegionSpikeDetails {
	return domain.RegionSpikeDetails{
		DemandLevel:     signal.Summary.DemandLevel,
		SpikePercentage: signal.Summary.SpikePercentage,
		Reason:          signal.Event.Reason,
		Duration:        signal.Event.Duration,
		TopProducts:     nonNil(signal.Summary.TopProducts),
	}
}

// RegionCards projects region signals into summary cards. withProducts
// includes the affected product list.
func RegionCards(signals []RegionSignal, withProducts bool) []domain.RegionCard {
	cards := make([]domain.RegionCard, 0, len(signals))
	for _, s := range signals {
		card := domain.RegionCard{
			Region:          s.Summary.Location,
			SpikePercentage: s.Summary.SpikePercentage,
			Reason:          s.Event.Reason,
			Duration:        s.Event.Duration,
			DemandLevel:     s.Summary.DemandLevel,
		}
		if withProducts {
			card.AffectedProducts = nonNil(s.Summary.TopProducts)
		}
		cards = append(cards, card)
	}
	return cards
}

// GeoOverlay projects region signals into map overlay entries. A region
// without coordinates is still emitted, with nil lat/lng.
func GeoOverlay(signals []RegionSignal) []domain.GeoOverlayEntry {
	entries := make([]domain.GeoOverlayEntry, 0, len(signals))
	for _, s := range signals {
		entry := domain.GeoOverlayEntry{
			Region:       s.Summary.Location,
			SpikePercent: s.Summary.SpikePercentage,
			DemandLevel:  s.Summary.DemandLevel,
			Reason:       s.Event.Reason,
			Duration:     s.Event.Duration,
			Products:     nonNil(s.Summary.TopProducts),
		}
		if s.Coordinates != nil {
			lat, lng := s.Coordinates.Lat, s.Coordinates.Lng
			entry.Lat = &lat
			entry.Lng = &lng
		}
		entries = append(entries, entry)
	}
	return entries
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
