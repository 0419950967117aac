package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// CompareHandler handles the compare selection and comparison table.
type CompareHandler struct {
	compareService *service.CompareService
}

// NewCompareHandler constructs a CompareHandler.
func NewCompareHandler(compareService *service.CompareService) *CompareHandler {
	return &CompareHandler{compareService: compareService}
}

// GetItems lists the selected item IDs.
func (h *CompareHandler) GetItems(c *gin.Context) {
	profileID := c.Param("profileId")

	ids, err := h.compareService.Items(c.Request.Context(), profileID)
	if err != nil {
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to load compare selection")
		return
	}

	utils.Success(c, 200, "Compare selection retrieved successfully", gin.H{
		"items": ids,
		"total": len(ids),
	})
}

// AddItem adds a product to the compare selection. The selection holds at
// most three products; a fourth add is rejected and leaves it unchanged.
func (h *CompareHandler) AddItem(c *gin.Context) {
	profileID := c.Param("profileId")
	itemID := c.Param("itemId")

	err := h.compareService.Add(c.Request.Context(), profileID, itemID)
	switch {
	case errors.Is(err, utils.ErrCompareLimit):
		utils.Error(c, 409, "COMPARE_LIMIT", "比較できるのは3つまでです")
		return
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		return
	case err != nil:
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to update compare selection")
		return
	}

	utils.Success(c, 200, "Product added to compare", gin.H{
		"item_id": itemID,
	})
}

// RemoveItem removes a product from the compare selection.
func (h *CompareHandler) RemoveItem(c *gin.Context) {
	profileID := c.Param("profileId")
	itemID := c.Param("itemId")

	if err := h.compareService.Remove(c.Request.Context(), profileID, itemID); err != nil {
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to update compare selection")
		return
	}

	utils.Success(c, 200, "Product removed from compare", gin.H{
		"item_id": itemID,
	})
}

// ClearItems empties the compare selection.
func (h *CompareHandler) ClearItems(c *gin.Context) {
	profileID := c.Param("profileId")

	if err := h.compareService.Clear(c.Request.Context(), profileID); err != nil {
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to clear compare selection")
		return
	}

	utils.Success(c, 200, "Compare selection cleared", nil)
}

// GetTable builds the comparison table for the current selection.
func (h *CompareHandler) GetTable(c *gin.Context) {
	profileID := c.Param("profileId")

	table, err := h.compareService.Table(c.Request.Context(), profileID)
	switch {
	case errors.Is(err, utils.ErrCompareTooFew):
		utils.Error(c, 422, "COMPARE_TOO_FEW", "At least two products are required for comparison")
		return
	case err != nil:
		utils.Error(c, 503, "STATE_UNAVAILABLE", "Failed to build comparison table")
		return
	}

	utils.Success(c, 200, "Comparison table retrieved successfully", gin.H{
		"table": table,
	})
}
