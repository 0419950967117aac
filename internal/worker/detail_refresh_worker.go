package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/service"
)

// DetailRefreshWorker re-fetches descriptions and review stats for snapshots
// that have gone stale, a bounded batch per cycle to stay inside the API's
// rate limits.
type DetailRefreshWorker struct {
	syncService *service.SyncService
	interval    time.Duration
	staleAfter  time.Duration
	batchSize   int
}

// NewDetailRefreshWorker constructs a DetailRefreshWorker.
func NewDetailRefreshWorker(syncService *service.SyncService, interval, staleAfter time.Duration, batchSize int) *DetailRefreshWorker {
	return &DetailRefreshWorker{
		syncService: syncService,
		interval:    interval,
		staleAfter:  staleAfter,
		batchSize:   batchSize,
	}
}

// Start begins the refresh loop and listens for context cancellation.
func (w *DetailRefreshWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("stale_after", w.staleAfter).
		Int("batch_size", w.batchSize).
		Msg("Starting detail refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Detail refresh worker stopped")
			return
		}
	}
}

func (w *DetailRefreshWorker) run(ctx context.Context) {
	refreshed, err := w.syncService.RefreshStaleDetails(ctx, w.staleAfter, w.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to refresh stale details")
		return
	}
	if refreshed > 0 {
		log.Info().Int("refreshed", refreshed).Msg("Refreshed stale item details")
	}
}
