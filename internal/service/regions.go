package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/warehouseiq/internal/aggregate"
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/report"
)

// SpikeSignals returns every alert-worthy region with its event metadata.
// withCoordinates also geocodes each region.
func (s *InventoryService) SpikeSignals(ctx context.Context, withCoordinates bool) ([]report.RegionSignal, error) {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, aggregate.Spikes(res.Records), withCoordinates)
}

// Spikes lists spiking regions with their affected products.
func (s *InventoryService) Spikes(ctx context.Context) ([]domain.RegionCard, error) {
	signals, err := s.SpikeSignals(ctx, false)
	if err != nil {
		return nil, err
	}
	return report.RegionCards(signals, true), nil
}

// SummaryCards lists spiking regions without product detail.
func (s *InventoryService) SummaryCards(ctx context.Context) ([]domain.RegionCard, error) {
	signals, err := s.SpikeSignals(ctx, false)
	if err != nil {
		return nil, err
	}
	return report.RegionCards(signals, false), nil
}

func (s *InventoryService) GeoOverlay(ctx context.Context) ([]domain.GeoOverlayEntry, error) {
	signals, err := s.SpikeSignals(ctx, true)
	if err != nil {
		return nil, err
	}
	return report.GeoOverlay(signals), nil
}

// RegionDetails drills into one region. It returns domain.ErrNoSpikeSignal
// when the region has no records or is below the spike threshold.
func (s *InventoryService) RegionDetails(ctx context.Context, region string) (domain.RegionSpikeDetails, error) {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return domain.RegionSpikeDetails{}, err
	}

	summary, ok := aggregate.Region(res.Records, strings.TrimSpace(region))
	if !ok || summary.SpikePercentage < aggregate.SpikeThreshold {
		return domain.RegionSpikeDetails{}, domain.ErrNoSpikeSignal
	}

	signals, err := s.enrich(ctx, []domain.RegionSummary{summary}, false)
	if err != nil {
		return domain.RegionSpikeDetails{}, err
	}
	return report.RegionDetails(signals[0]), nil
}

// enrich attaches event metadata, and optionally coordinates, to each region.
// Lookups run concurrently up to geoConcurrency. A failed lookup degrades to
// empty metadata or nil coordinates rather than failing the request.
func (s *InventoryService) enrich(ctx context.Context, summaries []domain.RegionSummary, withCoordinates bool) ([]report.RegionSignal, error) {
	signals := make([]report.RegionSignal, len(summaries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.geoConcurrency)

	for i, summary := range summaries {
		signals[i].Summary = summary
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			meta, err := s.events.EventMetadata(gctx, summary.Location)
			if err != nil {
				log.Warn().Err(err).Str("region", summary.Location).Msg("regions: event metadata lookup failed")
			} else {
				signals[i].Event = meta
			}

			if !withCoordinates {
				return nil
			}

			coords, err := s.geocoder.GeocodeRegion(gctx, summary.Location)
			if err != nil {
				if !errors.Is(err, domain.ErrUnresolvedGeocode) {
					log.Warn().Err(err).Str("region", summary.Location).Msg("regions: geocode failed")
				} else {
					log.Debug().Err(err).Str("region", summary.Location).Msg("regions: region not geocoded")
				}
				return nil
			}
			signals[i].Coordinates = &coords
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signals, nil
}
