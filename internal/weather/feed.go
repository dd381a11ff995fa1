package weather

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrNoObservation is returned before the first successful refresh
var ErrNoObservation = errors.New("no weather observation available yet")

// Feed caches the most recent observation for a location. Refresh is driven
// by the job scheduler; a failed refresh keeps the previous observation.
type Feed struct {
	provider Provider
	location string
	logger   *zap.Logger

	mu     sync.RWMutex
	latest Observation
	loaded bool
}

// NewFeed creates a feed for the location
func NewFeed(provider Provider, location string, logger *zap.Logger) *Feed {
	return &Feed{
		provider: provider,
		location: location,
		logger:   logger,
	}
}

// Refresh fetches a fresh observation from the provider
func (f *Feed) Refresh(ctx context.Context) error {
	obs, err := f.provider.Current(ctx, f.location)
	if err != nil {
		f.logger.Warn("Weather refresh failed, keeping previous observation",
			zap.String("location", f.location),
			zap.Error(err),
		)
		return err
	}

	f.mu.Lock()
	f.latest = obs
	f.loaded = true
	f.mu.Unlock()

	f.logger.Debug("Weather observation refreshed",
		zap.String("location", f.location),
		zap.Float64("temperature", obs.Temperature),
		zap.String("description", obs.Description),
	)
	return nil
}

// Latest returns the cached observation
func (f *Feed) Latest() (Observation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.loaded {
		return Observation{}, ErrNoObservation
	}
	return f.latest, nil
}
