package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/andresuchdata/warehouseiq/internal/domain"
)

// DefaultBaseURL is the Google Geocoding API endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder resolves a region name to map coordinates. Failures wrap
// domain.ErrUnresolvedGeocode.
type Geocoder interface {
	GeocodeRegion(ctx context.Context, region string) (domain.Coordinates, error)
}

type googleGeocoder struct {
	httpClient *resty.Client
	baseURL    string
	apiKey     string
}

// NewGoogleGeocoder creates a client for the Google Geocoding API.
func NewGoogleGeocoder(apiKey, baseURL string, timeout time.Duration) Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &googleGeocoder{httpClient: client, baseURL: baseURL, apiKey: apiKey}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

func (g *googleGeocoder) GeocodeRegion(ctx context.Context, region string) (domain.Coordinates, error) {
	var body geocodeResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetQueryParam("address", region).
		SetQueryParam("key", g.apiKey).
		SetResult(&body).
		Get(g.baseURL)

	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %s: %v", domain.ErrUnresolvedGeocode, region, err)
	}
	if resp.IsError() {
		return domain.Coordinates{}, fmt.Errorf("%w: %s: http %d", domain.ErrUnresolvedGeocode, region, resp.StatusCode())
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: %s: status %s", domain.ErrUnresolvedGeocode, region, body.Status)
	}

	loc := body.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// StaticGeocoder answers from a fixed table keyed by case-insensitive region name.
type StaticGeocoder struct {
	table map[string]domain.Coordinates
}

func NewStaticGeocoder(table map[string]domain.Coordinates) *StaticGeocoder {
	normalized := make(map[string]domain.Coordinates, len(table))
	for region, coords := range table {
		normalized[normalize(region)] = coords
	}
	return &StaticGeocoder{table: normalized}
}

func (g *StaticGeocoder) GeocodeRegion(ctx context.Context, region string) (domain.Coordinates, error) {
	coords, ok := g.table[normalize(region)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", domain.ErrUnresolvedGeocode, region)
	}
	return coords, nil
}

// DefaultRegions covers the regions the demo data set ships with.
func DefaultRegions() map[string]domain.Coordinates {
	return map[string]domain.Coordinates{
		"California": {Lat: 36.7783, Lng: -119.4179},
		"Texas":      {Lat: 31.9686, Lng: -99.9018},
		"New York":   {Lat: 40.7128, Lng: -74.0060},
		"Florida":    {Lat: 27.6648, Lng: -81.5158},
		"Mumbai":     {Lat: 19.0760, Lng: 72.8777},
		"Bangalore":  {Lat: 12.9716, Lng: 77.5946},
		"Chennai":    {Lat: 13.0827, Lng: 80.2707},
		"Pune":       {Lat: 18.5204, Lng: 73.8567},
	}
}

type noopGeocoder struct{}

// NewNoopGeocoder returns a geocoder that never resolves anything.
func NewNoopGeocoder() Geocoder {
	return noopGeocoder{}
}

func (noopGeocoder) GeocodeRegion(ctx context.Context, region string) (domain.Coordinates, error) {
	return domain.Coordinates{}, fmt.Errorf("%w: %s: geocoding disabled", domain.ErrUnresolvedGeocode, region)
}

// New picks a geocoder by provider name.
func New(provider, apiKey, baseURL string, timeout time.Duration) Geocoder {
	switch strings.ToLower(provider) {
	case "google":
		return NewGoogleGeocoder(apiKey, baseURL, timeout)
	case "static":
		return NewStaticGeocoder(DefaultRegions())
	default:
		return NewNoopGeocoder()
	}
}

func normalize(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}
