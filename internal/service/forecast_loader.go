package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/andresuchdata/warehouseiq/internal/cache"
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/forecast"
)

const defaultProviderTimeout = 30 * time.Second

// forecastLoader fronts the forecast provider with the snapshot-versioned
// cache. Concurrent requests for the same version share one provider call,
// which is detached from any single caller's cancellation.
type forecastLoader struct {
	provider forecast.Provider
	cache    cache.ForecastCache
	group    singleflight.Group
	timeout  time.Duration

	mu          sync.Mutex
	lastVersion string
}

func newForecastLoader(provider forecast.Provider, cacheImpl cache.ForecastCache) *forecastLoader {
	return &forecastLoader{provider: provider, cache: cacheImpl, timeout: defaultProviderTimeout}
}

func (l *forecastLoader) load(ctx context.Context, records []domain.SkuRecord) (map[string]float64, error) {
	skus := distinctSkus(records)
	version := cache.SnapshotVersion(skus)
	l.observe(ctx, version)

	if forecasts, ok, err := l.cache.GetForecasts(ctx, version); err == nil && ok {
		return forecasts, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	v, err, shared := l.group.Do(version, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		forecasts, err := l.provider.ForecastForSkus(callCtx, skus)
		if err != nil {
			return nil, err
		}
		if err := l.cache.SetForecasts(callCtx, version, forecasts); err != nil {
			log.Warn().Err(err).Msg("forecast: cache set failed")
		}
		return forecasts, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("version", version).Msg("forecast: shared in-flight provider call")
	}

	return v.(map[string]float64), nil
}

func (l *forecastLoader) scores(ctx context.Context) (domain.ModelScores, error) {
	return l.provider.ModelScores(ctx)
}

// observe drops the previous version's cache entry once a new snapshot
// version shows up.
func (l *forecastLoader) observe(ctx context.Context, version string) {
	l.mu.Lock()
	previous := l.lastVersion
	l.lastVersion = version
	l.mu.Unlock()

	if previous == "" || previous == version {
		return
	}

	if err := l.cache.InvalidateVersion(ctx, previous); err != nil {
		log.Warn().Err(err).Str("version", previous).Msg("forecast: cache invalidate failed")
		return
	}
	log.Info().Str("previous", previous).Str("current", version).Msg("forecast: snapshot changed, invalidated cached forecasts")
}

func distinctSkus(records []domain.SkuRecord) []string {
	seen := make(map[string]struct{}, len(records))
	skus := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.SKU]; ok {
			continue
		}
		seen[rec.SKU] = struct{}{}
		skus = append(skus, rec.SKU)
	}
	return skus
}
