package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/service"
)

// SyncWorker runs the full ranking collection on a fixed interval.
type SyncWorker struct {
	syncService *service.SyncService
	interval    time.Duration
}

// NewSyncWorker constructs a SyncWorker.
func NewSyncWorker(syncService *service.SyncService, interval time.Duration) *SyncWorker {
	return &SyncWorker{
		syncService: syncService,
		interval:    interval,
	}
}

// Start runs one collection immediately, then repeats on the interval until
// the context is cancelled.
func (w *SyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting ranking sync worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Ranking sync worker stopped")
			return
		}
	}
}

func (w *SyncWorker) run(ctx context.Context) {
	if err := w.syncService.SyncRankings(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to sync rankings")
	}
}
