package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/warehouseiq/internal/config"
)

const (
	forecastKeyPrefix     = "forecast:snapshot"
	forecastScanBatchSize = 100
)

// ForecastCache stores the forecast map computed for one snapshot version.
type ForecastCache interface {
	GetForecasts(ctx context.Context, version string) (map[string]float64, bool, error)
	SetForecasts(ctx context.Context, version string, forecasts map[string]float64) error
	InvalidateVersion(ctx context.Context, version string) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	store *redisStore
}

type noopForecastCache struct{}

// NewForecastCache connects to redis when caching is enabled, otherwise it
// returns a cache that never hits.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	store, err := openRedis(cfg)
	if err != nil {
		return nil, err
	}
	return &redisForecastCache{store: store}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecasts(ctx context.Context, version string) (map[string]float64, bool, error) {
	var forecasts map[string]float64
	ok, err := c.store.getJSON(ctx, buildForecastKey(version), &forecasts)
	if err != nil || !ok {
		return nil, false, err
	}
	return forecasts, true, nil
}

func (c *redisForecastCache) SetForecasts(ctx context.Context, version string, forecasts map[string]float64) error {
	return c.store.setJSON(ctx, buildForecastKey(version), forecasts)
}

func (c *redisForecastCache) InvalidateVersion(ctx context.Context, version string) error {
	return c.store.del(ctx, buildForecastKey(version))
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return c.store.purgePrefix(ctx, forecastKeyPrefix, forecastScanBatchSize)
}

func (n *noopForecastCache) GetForecasts(ctx context.Context, version string) (map[string]float64, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) SetForecasts(ctx context.Context, version string, forecasts map[string]float64) error {
	return nil
}

func (n *noopForecastCache) InvalidateVersion(ctx context.Context, version string) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// SnapshotVersion identifies a snapshot by the set of SKUs it contains.
// Order and duplicates do not change the version.
func SnapshotVersion(skus []string) string {
	normalized := make([]string, 0, len(skus))
	seen := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		sku = strings.TrimSpace(sku)
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		normalized = append(normalized, sku)
	}
	sort.Strings(normalized)

	sum := sha1.Sum([]byte(strings.Join(normalized, "\n")))
	return hex.EncodeToString(sum[:])
}

func buildForecastKey(version string) string {
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, version)
}
