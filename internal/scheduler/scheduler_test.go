package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/warehouseiq/internal/alerts"
	"github.com/andresuchdata/warehouseiq/internal/config"
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/report"
)

type fakeSpikes struct {
	signals []report.RegionSignal
	err     error
}

func (f fakeSpikes) SpikeSignals(ctx context.Context, withCoordinates bool) ([]report.RegionSignal, error) {
	return f.signals, f.err
}

type recordingPublisher struct {
	batches [][]alerts.SpikeAlert
}

func (p *recordingPublisher) Publish(ctx context.Context, batch []alerts.SpikeAlert) error {
	p.batches = append(p.batches, batch)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) UploadObject(ctx context.Context, key string, data []byte) error {
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return nil
}

var fixedNow = time.Date(2025, 1, 15, 2, 0, 0, 0, time.UTC)

func TestPublishSpikes(t *testing.T) {
	pub := &recordingPublisher{}
	spikes := fakeSpikes{signals: []report.RegionSignal{
		{Summary: domain.RegionSummary{Location: "California", SpikePercentage: 42.86, DemandLevel: domain.DemandHigh}},
	}}

	s := NewScheduler(config.SchedulerConfig{}, spikes, nil, pub, nil)
	s.now = func() time.Time { return fixedNow }

	if err := s.PublishSpikes(context.Background()); err != nil {
		t.Fatalf("PublishSpikes() error = %v", err)
	}
	if len(pub.batches) != 1 || len(pub.batches[0]) != 1 {
		t.Fatalf("expected one batch with one alert, got %+v", pub.batches)
	}
	if got := pub.batches[0][0]; got.Region != "California" || !got.Timestamp.Equal(fixedNow) {
		t.Errorf("unexpected alert %+v", got)
	}
}

func TestPublishSpikes_NothingToPublish(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewScheduler(config.SchedulerConfig{}, fakeSpikes{}, nil, pub, nil)

	if err := s.PublishSpikes(context.Background()); err != nil {
		t.Fatalf("PublishSpikes() error = %v", err)
	}
	if len(pub.batches) != 0 {
		t.Errorf("expected no publish, got %d batches", len(pub.batches))
	}

	s = NewScheduler(config.SchedulerConfig{}, fakeSpikes{err: errors.New("boom")}, nil, pub, nil)
	if err := s.PublishSpikes(context.Background()); err == nil {
		t.Errorf("expected detection error")
	}
}

func TestUploadExport(t *testing.T) {
	store := &memoryStore{}
	exporter := func(ctx context.Context, w *bytes.Buffer) error {
		_, err := w.WriteString("sku,product_name\nSKU1,Widget\n")
		return err
	}

	s := NewScheduler(config.SchedulerConfig{ExportPrefix: "exports"}, nil, exporter, nil, store)
	s.now = func() time.Time { return fixedNow }

	key, err := s.UploadExport(context.Background())
	if err != nil {
		t.Fatalf("UploadExport() error = %v", err)
	}
	if key != "exports/inventory_matrix_20250115T020000Z.csv" {
		t.Errorf("key = %q", key)
	}
	if string(store.objects[key]) != "sku,product_name\nSKU1,Widget\n" {
		t.Errorf("unexpected object body %q", store.objects[key])
	}
}

func TestStart_InvalidCron(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{SpikeCron: "not a cron"}, fakeSpikes{}, nil, nil, nil)
	if err := s.Start(); err == nil {
		t.Fatalf("expected invalid cron expression to fail")
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{SpikeCron: "*/15 * * * *"}, fakeSpikes{}, nil, nil, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Errorf("expected 1 scheduled job, got %d", len(s.cron.Entries()))
	}
	s.Stop()
}
