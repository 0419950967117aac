package service

import (
	"math"

	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// GuidePreset returns the criteria and sort key behind the guide shortcuts:
// "popular" (well-reviewed first), "cost" (cheap end of the catalog's price
// range), "quality" (high rating floor).
func (s *PipelineService) GuidePreset(kind string) (models.Criteria, models.SortKey, error) {
	switch kind {
	case "popular":
		return models.Criteria{Reviews: 1000}, models.SortByReview, nil
	case "cost":
		bounds := s.store.PriceBounds()
		span := bounds.Max - bounds.Min
		min := 0.0
		max := math.Round(bounds.Max - span*0.6)
		return models.Criteria{PriceMin: &min, PriceMax: &max}, models.SortByPrice, nil
	case "quality":
		return models.Criteria{Rating: 4.4}, models.SortByReview, nil
	default:
		return models.Criteria{}, models.SortByRank, utils.ErrUnknownGuide
	}
}
