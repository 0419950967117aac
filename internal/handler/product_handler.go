package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/internal/service"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// ProductHandler handles catalog listing, top picks, chart and guide endpoints.
type ProductHandler struct {
	pipeline *service.PipelineService
	state    *service.StateService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(pipeline *service.PipelineService, state *service.StateService) *ProductHandler {
	return &ProductHandler{pipeline: pipeline, state: state}
}

// criteriaFromQuery reads the filter constraints from query parameters.
// Absent parameters leave the corresponding constraint inactive.
func criteriaFromQuery(c *gin.Context) models.Criteria {
	criteria := models.Criteria{
		Keyword: strings.TrimSpace(c.Query("keyword")),
	}
	if v := c.Query("price_min"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			criteria.PriceMin = &n
		}
	}
	if v := c.Query("price_max"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			criteria.PriceMax = &n
		}
	}
	if v := c.Query("rating"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			criteria.Rating = n
		}
	}
	if v := c.Query("reviews"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			criteria.Reviews = n
		}
	}
	if v := c.Query("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				criteria.Tags = append(criteria.Tags, tag)
			}
		}
	}
	criteria.FavOnly = c.Query("fav_only") == "true"
	return criteria
}

// favoritesFor resolves the favorites set when the favorites-only constraint
// is active. Without a profile the set is empty, which matches nothing.
func (h *ProductHandler) favoritesFor(c *gin.Context, criteria models.Criteria) service.FavoriteSet {
	if !criteria.FavOnly {
		return nil
	}
	profileID := c.Query("profile_id")
	if profileID == "" {
		return service.FavoriteSet{}
	}
	return h.state.Favorites(c.Request.Context(), profileID)
}

// GetProducts returns the filtered, scored and sorted product list.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	criteria := criteriaFromQuery(c)
	sortBy := models.ParseSortKey(c.Query("sort"))
	favorites := h.favoritesFor(c, criteria)

	products := h.pipeline.Apply(criteria, sortBy, favorites)
	bounds := h.pipeline.PriceBounds()

	utils.Success(c, 200, "Products retrieved successfully", gin.H{
		"products":     products,
		"total":        len(products),
		"sort":         sortBy,
		"price_bounds": bounds,
	})
}

// GetTopPicks returns the highest-scoring catalog items, scored over the
// whole catalog regardless of active filters.
func (h *ProductHandler) GetTopPicks(c *gin.Context) {
	n := 3
	if v := c.Query("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 10 {
			n = parsed
		}
	}

	picks := h.pipeline.TopPicks(n)

	utils.Success(c, 200, "Top picks retrieved successfully", gin.H{
		"picks": picks,
	})
}

// GetChart returns price/rating bubble points for the current result list.
func (h *ProductHandler) GetChart(c *gin.Context) {
	criteria := criteriaFromQuery(c)
	sortBy := models.ParseSortKey(c.Query("sort"))
	favorites := h.favoritesFor(c, criteria)

	products := h.pipeline.Apply(criteria, sortBy, favorites)

	utils.Success(c, 200, "Chart data retrieved successfully", gin.H{
		"points": service.ChartPoints(products),
	})
}

// GetGuide resolves a named guide preset and returns the preset together
// with the products it selects.
func (h *ProductHandler) GetGuide(c *gin.Context) {
	kind := c.Param("type")

	criteria, sortBy, err := h.pipeline.GuidePreset(kind)
	if err != nil {
		utils.Error(c, 404, "UNKNOWN_GUIDE", "Unknown guide type")
		return
	}

	products := h.pipeline.Apply(criteria, sortBy, nil)

	utils.Success(c, 200, "Guide retrieved successfully", gin.H{
		"guide":    kind,
		"criteria": criteria,
		"sort":     sortBy,
		"products": products,
	})
}
