package scheduler

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"coinfolio/internal/assets"
	"coinfolio/internal/logger"
	"coinfolio/internal/market"
)

// Ingestor is the pipeline entry point fed by each tick.
type Ingestor interface {
	HandlePriceUpdate(symbol string, price float64, updatedAt time.Time) error
}

// Scheduler refreshes live prices on a fixed interval. Each supported
// asset is handled independently: a fetch failure or an invalid price is
// logged and skipped without aborting the remaining assets. There is no
// retry within a tick; the next tick is the retry mechanism.
type Scheduler struct {
	source   market.Source
	ingestor Ingestor
	registry *assets.Registry
	interval time.Duration
}

// New creates a scheduler.
func New(source market.Source, ingestor Ingestor, registry *assets.Registry, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Scheduler{
		source:   source,
		ingestor: ingestor,
		registry: registry,
		interval: interval,
	}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Log.Info("price scheduler started", zap.Duration("interval", s.interval))

	s.RefreshOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("price scheduler stopped")
			return
		case <-ticker.C:
			s.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce fetches the live price for every supported asset and feeds
// valid observations into the pipeline.
func (s *Scheduler) RefreshOnce(ctx context.Context) {
	updatedAt := time.Now()

	for _, asset := range s.registry.All() {
		price, err := s.source.FetchPrice(ctx, asset.Market)
		if err != nil {
			logger.Log.Error("price fetch failed",
				zap.String("market", asset.Market),
				zap.Error(err),
			)
			continue
		}
		if math.IsNaN(price) || math.IsInf(price, 0) {
			logger.Log.Warn("discarding non-finite price",
				zap.String("market", asset.Market),
				zap.Float64("price", price),
			)
			continue
		}

		if err := s.ingestor.HandlePriceUpdate(asset.Symbol, price, updatedAt); err != nil {
			logger.Log.Error("price ingestion failed",
				zap.String("symbol", asset.Symbol),
				zap.Error(err),
			)
		}
	}
}
