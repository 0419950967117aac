package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// EventHandler accepts client interaction events.
type EventHandler struct {
	analytics *service.AnalyticsService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(analytics *service.AnalyticsService) *EventHandler {
	return &EventHandler{analytics: analytics}
}

// PostEvent records one interaction event. Fire and forget from the client's
// point of view; only a missing event name is rejected.
func (h *EventHandler) PostEvent(c *gin.Context) {
	var req struct {
		Event     string                 `json:"event" binding:"required"`
		ProfileID string                 `json:"profileId"`
		Params    map[string]interface{} `json:"params"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	h.analytics.Track(req.ProfileID, req.Event, req.Params)

	utils.Success(c, 202, "Event recorded", nil)
}
