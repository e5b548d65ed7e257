// Package bootstrap wires the configured collaborators into an InventoryService.
package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/warehouseiq/internal/alerts"
	"github.com/andresuchdata/warehouseiq/internal/cache"
	"github.com/andresuchdata/warehouseiq/internal/config"
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/drive"
	"github.com/andresuchdata/warehouseiq/internal/forecast"
	"github.com/andresuchdata/warehouseiq/internal/geocode"
	"github.com/andresuchdata/warehouseiq/internal/repository"
	"github.com/andresuchdata/warehouseiq/internal/repository/postgres"
	"github.com/andresuchdata/warehouseiq/internal/scheduler"
	"github.com/andresuchdata/warehouseiq/internal/service"
	"github.com/andresuchdata/warehouseiq/internal/storage"
)

// App holds the wired service and everything that must be closed with it.
type App struct {
	Config  *config.Config
	Service *service.InventoryService
	// Store is nil when no object storage endpoint is configured.
	Store storage.ObjectStorage

	db      *postgres.DB
	pool    *pgxpool.Pool
	closers []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		app.Store = store
	}

	inventory, err := app.inventorySource(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	provider, err := app.forecastProvider(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	calendar, err := forecast.LoadCalendar(cfg.Events.CalendarPath)
	if err != nil {
		app.Close()
		return nil, err
	}

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("forecast cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	app.Service = service.NewInventoryService(service.Dependencies{
		Inventory: inventory,
		Forecasts: provider,
		Events:    forecast.NewRuleEventSource(calendar),
		Geocoder: geocode.New(
			cfg.Geocode.Provider,
			cfg.Geocode.APIKey,
			cfg.Geocode.BaseURL,
			time.Duration(cfg.Geocode.TimeoutSeconds)*time.Second,
		),
		Cache:          forecastCache,
		GeoConcurrency: cfg.Geocode.Concurrency,
	})

	return app, nil
}

// Database returns the sqlx handle, connecting on first use.
func (a *App) Database() (*postgres.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := postgres.NewDB(&a.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)
	return db, nil
}

// Pool returns the pgx pool, connecting on first use.
func (a *App) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	if a.pool != nil {
		return a.pool, nil
	}
	pool, err := forecast.OpenPool(ctx, a.Config.Database.DSN(), a.Config.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.closers = append(a.closers, func() error { pool.Close(); return nil })
	return pool, nil
}

func (a *App) inventorySource(ctx context.Context) (repository.InventoryRepository, error) {
	cfg := a.Config.Inventory
	switch strings.ToLower(cfg.Source) {
	case "postgres":
		db, err := a.Database()
		if err != nil {
			return nil, err
		}
		return repository.NewInventoryRepository(db), nil
	case "drive":
		if cfg.DriveFolderID == "" {
			return nil, fmt.Errorf("inventory source drive requires INVENTORY_DRIVE_FOLDER_ID")
		}
		files, err := drive.NewService(ctx, cfg.DriveCredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("init drive: %w", err)
		}
		return drive.NewInventorySource(files, cfg.DriveFolderID), nil
	case "s3":
		if a.Store == nil {
			return nil, fmt.Errorf("inventory source s3 requires STORAGE_ENDPOINT")
		}
		return repository.NewObjectRepository(a.Store, cfg.ObjectKey), nil
	case "csv", "":
		return repository.NewCSVFileRepository(cfg.CSVPath), nil
	default:
		return nil, fmt.Errorf("unknown inventory source %q", cfg.Source)
	}
}

func (a *App) forecastProvider(ctx context.Context) (forecast.Provider, error) {
	cfg := a.Config.Forecast
	scores := domain.ModelScores{
		Accuracy:         cfg.Accuracy,
		SeasonalTrendPct: cfg.SeasonalTrendPct,
		TrendSummary:     cfg.TrendSummary,
	}

	switch strings.ToLower(cfg.Provider) {
	case "postgres":
		pool, err := a.Pool(ctx)
		if err != nil {
			return nil, err
		}
		return forecast.NewPostgresProvider(pool, scores), nil
	case "csv":
		return forecast.NewCSVProvider(cfg.CSVPath, scores), nil
	case "static", "":
		return forecast.NewStaticProvider(nil, scores), nil
	default:
		return nil, fmt.Errorf("unknown forecast provider %q", cfg.Provider)
	}
}

// Publisher returns the Kafka publisher when alerts are enabled, otherwise
// alerts are only logged.
func (a *App) Publisher() alerts.Publisher {
	if !a.Config.Alerts.Enabled || len(a.Config.Alerts.Brokers) == 0 {
		return alerts.LogPublisher{}
	}
	pub := alerts.NewKafkaPublisher(a.Config.Alerts.Brokers, a.Config.Alerts.Topic)
	a.closers = append(a.closers, pub.Close)
	return pub
}

// Scheduler builds the cron jobs over the wired service.
func (a *App) Scheduler() *scheduler.Scheduler {
	var (
		exporter scheduler.Exporter
		store    storage.ObjectStorage
	)
	if a.Store != nil {
		store = a.Store
		exporter = func(ctx context.Context, w *bytes.Buffer) error {
			return a.Service.ExportMatrix(ctx, domain.InventoryFilter{}, w)
		}
	}
	return scheduler.NewScheduler(a.Config.Scheduler, a.Service, exporter, a.Publisher(), store)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("bootstrap: close failed")
		}
	}
	a.closers = nil
}
