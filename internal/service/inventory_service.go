package service

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/warehouseiq/internal/aggregate"
	"github.com/andresuchdata/warehouseiq/internal/cache"
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/forecast"
	"github.com/andresuchdata/warehouseiq/internal/geocode"
	"github.com/andresuchdata/warehouseiq/internal/reconcile"
	"github.com/andresuchdata/warehouseiq/internal/report"
	"github.com/andresuchdata/warehouseiq/internal/repository"
)

const defaultGeoConcurrency = 4

// Dependencies are the collaborators an InventoryService is built from.
// Cache, Events and Geocoder are optional.
type Dependencies struct {
	Inventory      repository.InventoryRepository
	Forecasts      forecast.Provider
	Events         forecast.EventSource
	Geocoder       geocode.Geocoder
	Cache          cache.ForecastCache
	GeoConcurrency int
}

// InventoryService builds every inventory view from a freshly loaded snapshot.
// Each call reconciles the snapshot once and derives its view from that result.
type InventoryService struct {
	repo           repository.InventoryRepository
	events         forecast.EventSource
	geocoder       geocode.Geocoder
	forecasts      *forecastLoader
	engine         *reconcile.Engine
	geoConcurrency int
}

func NewInventoryService(deps Dependencies) *InventoryService {
	cacheImpl := deps.Cache
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	events := deps.Events
	if events == nil {
		events = forecast.NewRuleEventSource(nil)
	}
	geocoder := deps.Geocoder
	if geocoder == nil {
		geocoder = geocode.NewNoopGeocoder()
	}
	concurrency := deps.GeoConcurrency
	if concurrency <= 0 {
		concurrency = defaultGeoConcurrency
	}

	return &InventoryService{
		repo:           deps.Inventory,
		events:         events,
		geocoder:       geocoder,
		forecasts:      newForecastLoader(deps.Forecasts, cacheImpl),
		engine:         reconcile.NewEngine(),
		geoConcurrency: concurrency,
	}
}

// Snapshot loads the inventory and forecasts and reconciles them. Rejected
// records are logged and returned alongside the reconciled ones.
func (s *InventoryService) Snapshot(ctx context.Context) (reconcile.Result, error) {
	snap, err := s.repo.LoadInventorySnapshot(ctx)
	if err != nil {
		return reconcile.Result{}, domain.Unavailable("inventory snapshot", err)
	}
	records := snap.Records

	forecasts, err := s.forecasts.load(ctx, records)
	if err != nil {
		return reconcile.Result{}, domain.Unavailable("forecast provider", err)
	}

	res := s.engine.ReconcileAll(records, forecasts)
	res.Rejected = append(snap.Rejected, res.Rejected...)
	for _, rejected := range res.Rejected {
		log.Warn().Str("sku", rejected.SKU).Str("reason", rejected.Reason).Msg("inventory: rejected snapshot record")
	}

	log.Debug().
		Int("records", len(records)).
		Int("forecasts", len(forecasts)).
		Int("rejected", len(res.Rejected)).
		Msg("inventory: snapshot reconciled")

	return res, nil
}

// DashboardMetrics rolls up the whole snapshot, ignoring any filter.
func (s *InventoryService) DashboardMetrics(ctx context.Context) (domain.DashboardMetrics, error) {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, err
	}

	scores, err := s.forecasts.scores(ctx)
	if err != nil {
		return domain.DashboardMetrics{}, domain.Unavailable("forecast model scores", err)
	}

	return aggregate.Dashboard(res.Records, scores), nil
}

func (s *InventoryService) InventoryMatrix(ctx context.Context, filter domain.InventoryFilter) (domain.InventoryMatrix, error) {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return domain.InventoryMatrix{}, err
	}

	items := report.Matrix(res.Records, filter)
	return domain.InventoryMatrix{
		Items:    items,
		Total:    len(items),
		Rejected: res.RejectedRecords(),
	}, nil
}

func (s *InventoryService) InventoryMetrics(ctx context.Context) (domain.InventoryMetrics, error) {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return domain.InventoryMetrics{}, err
	}
	return aggregate.Fleet(res.Records), nil
}

func (s *InventoryService) ReorderReport(ctx context.Context) (domain.ReorderReport, error) {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return domain.ReorderReport{}, err
	}
	return report.Reorder(res.Records), nil
}

// ExportMatrix writes the filtered matrix as CSV. The snapshot is loaded
// before anything is written, so a failed load leaves w untouched.
func (s *InventoryService) ExportMatrix(ctx context.Context, filter domain.InventoryFilter, w io.Writer) error {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return report.WriteCSV(w, report.FormatMatrix, report.Export(res.Records, filter))
}

// ExportReorder writes the reorder report as CSV.
func (s *InventoryService) ExportReorder(ctx context.Context, w io.Writer) error {
	res, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return report.WriteCSV(w, report.FormatReorder, report.ReorderRows(report.Reorder(res.Records)))
}

func (s *InventoryService) EstimateEventImpact(ctx context.Context, region, eventType string, score float64) (domain.EventEstimate, error) {
	return s.events.EventImpact(ctx, region, eventType, score)
}

// AnalyzePrice compares our price with a competitor's. It needs no snapshot.
func (s *InventoryService) AnalyzePrice(ownPrice, competitorPrice, elasticity float64) (domain.PriceAnalysis, error) {
	return reconcile.AnalyzePrice(ownPrice, competitorPrice, elasticity)
}

func (s *InventoryService) UpcomingEvents(ctx context.Context) ([]domain.UpcomingEvent, error) {
	return s.events.UpcomingEvents(ctx)
}
