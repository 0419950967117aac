package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// StateHandler handles per-profile view state, theme and favorites.
type StateHandler struct {
	stateService *service.StateService
}

// NewStateHandler constructs a StateHandler.
func NewStateHandler(stateService *service.StateService) *StateHandler {
	return &StateHandler{stateService: stateService}
}

// GetState returns the persisted view state, falling back to defaults when
// nothing is stored or the stored blob is unreadable.
func (h *StateHandler) GetState(c *gin.Context) {
	profileID := c.Param("profileId")

	state := h.stateService.RestoreState(c.Request.Context(), profileID)
	theme := h.stateService.Theme(c.Request.Context(), profileID)

	utils.Success(c, 200, "State retrieved successfully", gin.H{
		"state": state,
		"theme": theme,
	})
}

// PutState replaces the persisted view state.
func (h *StateHandler) PutState(c *gin.Context) {
	profileID := c.Param("profileId")

	var req models.AppState
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.stateService.SaveState(c.Request.Context(), profileID, req); err != nil {
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to save state")
		return
	}

	utils.Success(c, 200, "State saved successfully", nil)
}

// PutTheme stores the theme preference.
func (h *StateHandler) PutTheme(c *gin.Context) {
	profileID := c.Param("profileId")

	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	theme := models.ParseTheme(req.Theme)
	if err := h.stateService.SaveTheme(c.Request.Context(), profileID, theme); err != nil {
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to save theme")
		return
	}

	utils.Success(c, 200, "Theme saved successfully", gin.H{
		"theme": theme,
	})
}

// GetFavorites lists the favorited item IDs.
func (h *StateHandler) GetFavorites(c *gin.Context) {
	profileID := c.Param("profileId")

	favorites := h.stateService.Favorites(c.Request.Context(), profileID)
	ids := make([]string, 0, len(favorites))
	for id := range favorites {
		ids = append(ids, id)
	}

	utils.Success(c, 200, "Favorites retrieved successfully", gin.H{
		"favorites": ids,
		"total":     len(ids),
	})
}

// ToggleFavorite flips the favorite mark on one item and reports the new state.
func (h *StateHandler) ToggleFavorite(c *gin.Context) {
	profileID := c.Param("profileId")
	itemID := c.Param("itemId")

	favorited, err := h.stateService.ToggleFavorite(c.Request.Context(), profileID, itemID)
	if err != nil {
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to toggle favorite")
		return
	}

	utils.Success(c, 200, "Favorite toggled successfully", gin.H{
		"item_id":   itemID,
		"favorited": favorited,
	})
}
