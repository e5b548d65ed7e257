package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/report"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func signals() []report.RegionSignal {
	return []report.RegionSignal{
		{
			Summary:     domain.RegionSummary{Location: "California", SpikePercentage: 42.86, DemandLevel: domain.DemandHigh, TopProducts: []string{"C-3"}},
			Event:       domain.EventMetadata{Reason: "Detected via ML pattern", Duration: "2 days"},
			Coordinates: &domain.Coordinates{Lat: 36.77, Lng: -119.41},
		},
		{
			Summary: domain.RegionSummary{Location: "Arizona", SpikePercentage: 20, DemandLevel: domain.DemandMild},
		},
	}
}

func TestFromSignals(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	got := FromSignals(signals(), now)

	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("expected unique alert ids, got %q and %q", got[0].ID, got[1].ID)
	}
	if got[0].Region != "California" || got[0].Lat == nil || *got[0].Lat != 36.77 || !got[0].Timestamp.Equal(now) {
		t.Errorf("unexpected alert %+v", got[0])
	}
	if got[1].Lat != nil || got[1].TopProducts == nil {
		t.Errorf("unexpected alert %+v", got[1])
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}

	alerts := FromSignals(signals(), time.Now())
	if err := p.Publish(context.Background(), alerts); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "California" {
		t.Errorf("message key = %q, want region", w.msgs[0].Key)
	}

	var decoded SpikeAlert
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if decoded.SpikePercentage != 42.86 || decoded.DemandLevel != domain.DemandHigh {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestKafkaPublisher_EmptyAndError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w}

	if err := p.Publish(context.Background(), nil); err != nil {
		t.Errorf("publishing nothing should not touch the broker, got %v", err)
	}
	if err := p.Publish(context.Background(), FromSignals(signals(), time.Now())); err == nil {
		t.Errorf("expected broker error")
	}
}
