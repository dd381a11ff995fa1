package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WeatherRefreshJobName is the name of the weather feed refresh job
const WeatherRefreshJobName = "weather_refresh"

// DefaultRefreshTimeout bounds a single refresh cycle so a slow provider
// cannot stall the scheduler slot.
const DefaultRefreshTimeout = 30 * time.Second

// WeatherFeed defines the interface for refreshing the cached weather
// observation. This interface allows the job to call the feed without
// importing the weather package directly.
type WeatherFeed interface {
	// Refresh fetches a fresh observation and caches it. On error the
	// previously cached observation is kept.
	Refresh(ctx context.Context) error
}

// WeatherRefreshJob periodically refreshes the cached weather observation
// that backs the weather endpoints.
type WeatherRefreshJob struct {
	feed    WeatherFeed
	logger  *zap.Logger
	timeout time.Duration
}

// NewWeatherRefreshJob creates a new weather refresh job.
// The timeout controls how long a single refresh is allowed to run.
func NewWeatherRefreshJob(feed WeatherFeed, logger *zap.Logger, timeout time.Duration) *WeatherRefreshJob {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &WeatherRefreshJob{
		feed:    feed,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the weather refresh job.
// This is called by the scheduler according to the cron expression.
func (j *WeatherRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	if err := j.feed.Refresh(ctx); err != nil {
		j.logger.Error("weather refresh job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Debug("weather refresh job completed",
		zap.Duration("duration", time.Since(start)))
}

// RegisterWeatherRefreshJob registers the weather refresh job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "@every 600s" for every
// ten minutes). If runInitialRefresh is true an immediate refresh is performed
// in a background goroutine so the first request does not wait for the schedule.
func RegisterWeatherRefreshJob(scheduler *Scheduler, feed WeatherFeed, logger *zap.Logger, cronExpr string, timeout time.Duration, runInitialRefresh bool) error {
	job := NewWeatherRefreshJob(feed, logger, timeout)

	if runInitialRefresh {
		go job.Run()
	}

	return scheduler.AddJob(WeatherRefreshJobName, cronExpr, job.Run)
}
