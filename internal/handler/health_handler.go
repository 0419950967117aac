package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rakurank/rakurank_api/internal/cache"
	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	store       *catalog.Store
	redis       *cache.RedisClient
	syncService *service.SyncService
}

// NewHealthHandler creates a new HealthHandler. The redis client may be nil
// when the service runs on the in-memory state store.
func NewHealthHandler(store *catalog.Store, redis *cache.RedisClient, syncService *service.SyncService) *HealthHandler {
	return &HealthHandler{store: store, redis: redis, syncService: syncService}
}

// GetHealth responds with catalog, state store and sync status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	redisStatus := "memory"
	if h.redis != nil {
		redisStatus = "connected"
		if err := h.redis.Ping(c.Request.Context()); err != nil {
			redisStatus = "disconnected"
		}
	}

	lastSync := ""
	if t := h.syncService.LastSync(); !t.IsZero() {
		lastSync = t.UTC().Format(time.RFC3339)
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"catalog": gin.H{
			"items":      h.store.Len(),
			"updated_at": h.store.UpdatedAt().UTC().Format(time.RFC3339),
		},
		"state_store": redisStatus,
		"last_sync":   lastSync,
	})
}
