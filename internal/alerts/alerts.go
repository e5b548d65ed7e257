package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/report"
)

// SpikeAlert is the message published for each spiking region.
type SpikeAlert struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Region          string             `json:"region"`
	SpikePercentage float64            `json:"spike_percentage"`
	DemandLevel     domain.DemandLevel `json:"demand_level"`
	Reason          string             `json:"reason"`
	Duration        string             `json:"duration"`
	TopProducts     []string           `json:"top_products"`
	Lat             *float64           `json:"lat,omitempty"`
	Lng             *float64           `json:"lng,omitempty"`
}

// Publisher delivers spike alerts downstream.
type Publisher interface {
	Publish(ctx context.Context, alerts []SpikeAlert) error
	Close() error
}

// FromSignals builds one alert per region signal.
func FromSignals(signals []report.RegionSignal, now time.Time) []SpikeAlert {
	out := make([]SpikeAlert, 0, len(signals))
	for _, entry := range report.GeoOverlay(signals) {
		out = append(out, SpikeAlert{
			ID:              uuid.NewString(),
			Timestamp:       now.UTC(),
			Region:          entry.Region,
			SpikePercentage: entry.SpikePercent,
			DemandLevel:     entry.DemandLevel,
			Reason:          entry.Reason,
			Duration:        entry.Duration,
			TopProducts:     entry.Products,
			Lat:             entry.Lat,
			Lng:             entry.Lng,
		})
	}
	return out
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 250 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes alerts keyed by region so a region's alerts stay ordered.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: NewWriter(brokers, topic)}
}

func (p *KafkaPublisher) Publish(ctx context.Context, alerts []SpikeAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(alerts))
	for _, alert := range alerts {
		body, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("marshal spike alert %s: %w", alert.Region, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(alert.Region),
			Value: body,
			Time:  alert.Timestamp,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish spike alerts: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher writes alerts to the log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, alerts []SpikeAlert) error {
	for _, alert := range alerts {
		log.Info().
			Str("alert_id", alert.ID).
			Str("region", alert.Region).
			Float64("spike_percentage", alert.SpikePercentage).
			Str("demand_level", string(alert.DemandLevel)).
			Strs("top_products", alert.TopProducts).
			Msg("demand spike detected")
	}
	return nil
}

func (LogPublisher) Close() error { return nil }
