package scheduler

import (
	"context"
	"time"

	"github.com/stacknscroll/linkd/internal/cache"
	"github.com/stacknscroll/linkd/internal/logger"
)

// CacheReloader periodically refreshes the cache mirror from the
// store, and on demand through the manual trigger channel.
type CacheReloader struct {
	cache         *cache.Cache
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCacheReloader creates a cache reloader.
func NewCacheReloader(
	c *cache.Cache,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CacheReloader {
	return &CacheReloader{
		cache:         c,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the cache once, then keeps it fresh in the background.
// A failed initial load is logged, not fatal: the store may still be
// warming up and the next tick retries.
func (cr *CacheReloader) Start(ctx context.Context) error {
	if err := cr.cache.Load(ctx); err != nil {
		cr.logger.Warn("initial cache load failed, will retry on next tick",
			logger.Error(err))
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.cache.Load(ctx); err != nil {
					cr.logger.Error("failed to reload cache", logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual cache reload triggered")
				if err := cr.cache.Load(ctx); err != nil {
					cr.logger.Error("failed to reload cache", logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (cr *CacheReloader) Stop() {
	close(cr.stopCh)
}
