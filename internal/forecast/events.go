package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

const (
	defaultEventReason   = "Detected via ML pattern"
	defaultEventDuration = "2 days"
)

// ErrInvalidScore is returned for a negative or non-finite event score.
var ErrInvalidScore = errors.New("event score must be a non-negative number")

// EventSource explains regional spikes and estimates the impact of local events.
type EventSource interface {
	EventMetadata(ctx context.Context, region string) (domain.EventMetadata, error)
	EventImpact(ctx context.Context, region, eventType string, score float64) (domain.EventEstimate, error)
	UpcomingEvents(ctx context.Context) ([]domain.UpcomingEvent, error)
}

type eventRule struct {
	factor      float64
	duration    string
	explanation func(region string) string
}

var eventRules = map[string]eventRule{
	"festival": {
		factor:      0.10,
		duration:    "1-2 weeks",
		explanation: func(region string) string { return region + " festival surge expected" },
	},
	"conference": {
		factor:      0.05,
		duration:    "3-5 days",
		explanation: func(region string) string { return "Professional conference in " + region },
	},
	"sports": {
		factor:      0.15,
		duration:    "1 week",
		explanation: func(region string) string { return "Major sporting event impact in " + region },
	},
	"concert": {
		factor:      0.08,
		duration:    "2-3 days",
		explanation: func(string) string { return "Concert series driving local demand" },
	},
}

// RuleEventSource estimates event impact from a fixed per-type rule table and
// answers calendar questions from a static event list.
type RuleEventSource struct {
	calendar []domain.UpcomingEvent
}

// NewRuleEventSource builds an event source over calendar. A nil calendar
// falls back to the built-in list.
func NewRuleEventSource(calendar []domain.UpcomingEvent) *RuleEventSource {
	if calendar == nil {
		calendar = DefaultCalendar()
	}
	return &RuleEventSource{calendar: calendar}
}

// EventMetadata reports the calendar event for region when there is one.
// Regions without a known event get the generic model-detected reason.
func (s *RuleEventSource) EventMetadata(ctx context.Context, region string) (domain.EventMetadata, error) {
	if ev, ok := s.eventFor(region); ok {
		duration := defaultEventDuration
		if rule, ok := eventRules[normalizeType(ev.EventType)]; ok {
			duration = rule.duration
		}
		return domain.EventMetadata{Reason: ev.EventName, Duration: duration}, nil
	}
	return domain.EventMetadata{Reason: defaultEventReason, Duration: defaultEventDuration}, nil
}

func (s *RuleEventSource) EventImpact(ctx context.Context, region, eventType string, score float64) (domain.EventEstimate, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return domain.EventEstimate{}, fmt.Errorf("%w: %v", ErrInvalidScore, score)
	}
	return estimate(region, eventType, score), nil
}

// UpcomingEvents returns the calendar ordered by date.
func (s *RuleEventSource) UpcomingEvents(ctx context.Context) ([]domain.UpcomingEvent, error) {
	events := make([]domain.UpcomingEvent, len(s.calendar))
	copy(events, s.calendar)

	for i := range events {
		if events[i].ExpectedImpact == "" {
			est := estimate(events[i].Region, events[i].EventType, events[i].Score)
			events[i].ExpectedImpact = fmt.Sprintf("+%d%%", int(math.Round((est.DemandMultiplier-1)*100)))
		}
		if events[i].Categories == nil {
			events[i].Categories = []string{}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
	return events, nil
}

func (s *RuleEventSource) eventFor(region string) (domain.UpcomingEvent, bool) {
	for _, ev := range s.calendar {
		if strings.EqualFold(strings.TrimSpace(ev.Region), strings.TrimSpace(region)) {
			return ev, true
		}
	}
	return domain.UpcomingEvent{}, false
}

func estimate(region, eventType string, score float64) domain.EventEstimate {
	rule, ok := eventRules[normalizeType(eventType)]
	if !ok {
		return domain.EventEstimate{
			DemandMultiplier: 1.0,
			Duration:         "N/A",
			Explanation:      "No significant impact",
		}
	}

	return domain.EventEstimate{
		DemandMultiplier: roundFloat(1.0+score*rule.factor, 2),
		Duration:         rule.duration,
		Explanation:      rule.explanation(region),
	}
}

func normalizeType(eventType string) string {
	return strings.ToLower(strings.TrimSpace(eventType))
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
