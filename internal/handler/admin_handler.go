package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/rakurank/rakurank_api/internal/repository"
	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// AdminHandler exposes operator actions: triggering a ranking sync,
// reloading the catalog from the latest snapshots, and inspecting which
// genres have been collected.
type AdminHandler struct {
	syncService *service.SyncService
	rankingRepo *repository.RankingRepository
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(syncService *service.SyncService, rankingRepo *repository.RankingRepository) *AdminHandler {
	return &AdminHandler{syncService: syncService, rankingRepo: rankingRepo}
}

// TriggerSync starts a ranking collection run in the background. A run
// already in flight absorbs the trigger.
func (h *AdminHandler) TriggerSync(c *gin.Context) {
	adminEmail := c.GetString("admin_email")
	log.Info().Str("admin", adminEmail).Msg("Manual ranking sync triggered")

	go func() {
		// Detached from the request; a sync outlives the HTTP exchange.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := h.syncService.SyncRankings(ctx); err != nil {
			log.Error().Err(err).Msg("Manual ranking sync failed")
		}
	}()

	utils.Success(c, 202, "Ranking sync started", nil)
}

// ReloadCatalog rebuilds the serving catalog from the stored snapshots.
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	adminEmail := c.GetString("admin_email")
	log.Info().Str("admin", adminEmail).Msg("Catalog reload triggered")

	if err := h.syncService.RefreshCatalog(c.Request.Context()); err != nil {
		utils.Error(c, 500, "RELOAD_FAILED", "Failed to reload catalog")
		return
	}

	utils.Success(c, 200, "Catalog reloaded successfully", nil)
}

// ListGenres returns the genre names present in the collected snapshots.
func (h *AdminHandler) ListGenres(c *gin.Context) {
	genres, err := h.rankingRepo.DistinctGenres()
	if err != nil {
		utils.Error(c, 500, "GENRES_FAILED", "Failed to list genres")
		return
	}

	utils.Success(c, 200, "Genres retrieved successfully", gin.H{
		"genres": genres,
		"total":  len(genres),
	})
}
