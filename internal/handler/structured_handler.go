package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// StructuredHandler serves schema.org documents for the current catalog.
type StructuredHandler struct {
	structured *service.StructuredDataService
}

// NewStructuredHandler constructs a StructuredHandler.
func NewStructuredHandler(structured *service.StructuredDataService) *StructuredHandler {
	return &StructuredHandler{structured: structured}
}

// GetStructuredData returns the ItemList and BreadcrumbList documents.
func (h *StructuredHandler) GetStructuredData(c *gin.Context) {
	utils.Success(c, 200, "Structured data retrieved successfully", gin.H{
		"item_list":  h.structured.ItemList(),
		"breadcrumb": h.structured.Breadcrumb(),
	})
}
