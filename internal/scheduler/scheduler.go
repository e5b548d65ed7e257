package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/warehouseiq/internal/alerts"
	"github.com/andresuchdata/warehouseiq/internal/config"
	"github.com/andresuchdata/warehouseiq/internal/report"
)

type spikeSource interface {
	SpikeSignals(ctx context.Context, withCoordinates bool) ([]report.RegionSignal, error)
}

type uploader interface {
	UploadObject(ctx context.Context, key string, data []byte) error
}

// Scheduler runs the periodic spike alert and export jobs.
type Scheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	spikes    spikeSource
	exporter  Exporter
	publisher alerts.Publisher
	store     uploader
	now       func() time.Time
}

// Exporter writes the full inventory matrix as CSV.
type Exporter func(ctx context.Context, w *bytes.Buffer) error

func NewScheduler(cfg config.SchedulerConfig, spikes spikeSource, exporter Exporter, publisher alerts.Publisher, store uploader) *Scheduler {
	if publisher == nil {
		publisher = alerts.LogPublisher{}
	}
	return &Scheduler{
		cron:      cron.New(),
		cfg:       cfg,
		spikes:    spikes,
		exporter:  exporter,
		publisher: publisher,
		store:     store,
		now:       time.Now,
	}
}

func (s *Scheduler) Start() error {
	log.Info().Msg("starting scheduler")

	if s.cfg.SpikeCron != "" && s.spikes != nil {
		if _, err := s.cron.AddFunc(s.cfg.SpikeCron, s.publishSpikes); err != nil {
			return fmt.Errorf("schedule spike alerts: %w", err)
		}
	}

	if s.cfg.ExportCron != "" && s.exporter != nil && s.store != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExportCron, s.uploadExport); err != nil {
			return fmt.Errorf("schedule matrix export: %w", err)
		}
	} else {
		log.Info().Msg("scheduler: matrix export job disabled")
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	log.Info().Msg("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.cfg.JobTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (s *Scheduler) publishSpikes() {
	ctx, cancel := s.jobContext()
	defer cancel()

	if err := s.PublishSpikes(ctx); err != nil {
		log.Error().Err(err).Msg("scheduler: spike alert job failed")
	}
}

// PublishSpikes detects spiking regions and publishes one alert per region.
func (s *Scheduler) PublishSpikes(ctx context.Context) error {
	signals, err := s.spikes.SpikeSignals(ctx, true)
	if err != nil {
		return fmt.Errorf("detect spikes: %w", err)
	}
	if len(signals) == 0 {
		log.Debug().Msg("scheduler: no spiking regions")
		return nil
	}

	batch := alerts.FromSignals(signals, s.now())
	if err := s.publisher.Publish(ctx, batch); err != nil {
		return err
	}
	log.Info().Int("regions", len(batch)).Msg("scheduler: spike alerts published")
	return nil
}

func (s *Scheduler) uploadExport() {
	ctx, cancel := s.jobContext()
	defer cancel()

	if _, err := s.UploadExport(ctx); err != nil {
		log.Error().Err(err).Msg("scheduler: matrix export job failed")
	}
}

// UploadExport writes the matrix CSV to object storage under a timestamped key.
func (s *Scheduler) UploadExport(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := s.exporter(ctx, &buf); err != nil {
		return "", fmt.Errorf("export matrix: %w", err)
	}

	key := exportKey(s.cfg.ExportPrefix, s.now())
	if err := s.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	log.Info().Str("key", key).Int("bytes", buf.Len()).Msg("scheduler: matrix export uploaded")
	return key, nil
}

func exportKey(prefix string, at time.Time) string {
	return path.Join(prefix, fmt.Sprintf("inventory_matrix_%s.csv", at.UTC().Format("20060102T150405Z")))
}
