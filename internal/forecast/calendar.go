package forecast

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// DefaultCalendar is the built-in event list used when no calendar file is configured.
func DefaultCalendar() []domain.UpcomingEvent {
	return []domain.UpcomingEvent{
		{
			EventName:      "Diwali Festival",
			EventType:      "Festival",
			Region:         "Mumbai",
			Date:           "2025-01-15",
			Score:          9.5,
			ExpectedImpact: "+95%",
			Categories:     []string{"Electronics", "Gifts", "Clothing"},
		},
		{
			EventName:      "Tech Summit 2025",
			EventType:      "Conference",
			Region:         "Bangalore",
			Date:           "2025-01-20",
			Score:          7.2,
			ExpectedImpact: "+36%",
			Categories:     []string{"Electronics", "Gadgets", "Accessories"},
		},
		{
			EventName:      "IPL Match",
			EventType:      "Sports",
			Region:         "Chennai",
			Date:           "2025-01-25",
			Score:          8.1,
			ExpectedImpact: "+122%",
			Categories:     []string{"Sports Gear", "Snacks", "Merchandise"},
		},
		{
			EventName:      "Music Festival",
			EventType:      "Concert",
			Region:         "Pune",
			Date:           "2025-01-30",
			Score:          6.8,
			ExpectedImpact: "+54%",
			Categories:     []string{"Audio Equipment", "Apparel", "Accessories"},
		},
	}
}

// LoadCalendar reads the "events" list from a YAML or JSON file. An empty
// path returns the built-in calendar.
func LoadCalendar(path string) ([]domain.UpcomingEvent, error) {
	if path == "" {
		return DefaultCalendar(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read event calendar %s: %w", path, err)
	}

	var events []domain.UpcomingEvent
	if err := v.UnmarshalKey("events", &events); err != nil {
		return nil, fmt.Errorf("decode event calendar %s: %w", path, err)
	}
	if events == nil {
		events = []domain.UpcomingEvent{}
	}
	return events, nil
}
