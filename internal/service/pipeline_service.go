package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/models"
)

// FavoriteSet holds product identity keys marked as favorites.
type FavoriteSet map[string]struct{}

// PipelineService runs the filter/sort/score pipeline against the catalog.
// It holds no mutable state of its own: every call is a pure function of
// (catalog, criteria, sortBy, favorites), so re-running with identical inputs
// yields an identical ordered sequence.
type PipelineService struct {
	store *catalog.Store
}

// NewPipelineService constructs a PipelineService.
func NewPipelineService(store *catalog.Store) *PipelineService {
	return &PipelineService{store: store}
}

// Apply filters the catalog by the given criteria, attaches composite scores
// computed over the filtered subset, and orders the result by the sort key.
func (s *PipelineService) Apply(criteria models.Criteria, sortBy models.SortKey, favorites FavoriteSet) []models.Product {
	return Run(s.store.Products(), criteria, sortBy, favorites)
}

// TopPicks returns the highest-scoring products with bounds computed over the
// whole catalog, not a filtered subset: the picks should reflect the full
// catalog's spread.
func (s *PipelineService) TopPicks(n int) []models.Product {
	scored := ComputeScores(s.store.Products())
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if n < 0 {
		n = 0
	}
	if n > len(scored) {
		n = len(scored)
	}
	return scored[:n]
}

// PriceBounds exposes the catalog-wide price bounds.
func (s *PipelineService) PriceBounds() models.PriceBounds {
	return s.store.PriceBounds()
}

// Run is the pipeline entry point over an explicit product list.
func Run(products []models.Product, criteria models.Criteria, sortBy models.SortKey, favorites FavoriteSet) []models.Product {
	filtered := Filter(products, criteria, favorites)
	if len(filtered) > 0 {
		filtered = ComputeScores(filtered)
	}
	sortProducts(filtered, sortBy)
	return filtered
}

// Filter keeps the products satisfying every criterion. An empty criteria set
// passes everything; an empty result is a valid outcome, not an error.
func Filter(products []models.Product, c models.Criteria, favorites FavoriteSet) []models.Product {
	keyword := strings.ToLower(strings.TrimSpace(c.Keyword))
	tags := c.TagSet()

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matchKeyword(&p, keyword) {
			continue
		}
		if !matchPrice(&p, c.PriceMin, c.PriceMax) {
			continue
		}
		if p.ReviewAverage < c.Rating {
			continue
		}
		if p.ReviewCount < c.Reviews {
			continue
		}
		if !matchTags(&p, tags) {
			continue
		}
		if c.FavOnly {
			if _, ok := favorites[p.ID()]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// matchKeyword checks for the trimmed, lower-cased keyword as a substring of
// the concatenated name, catchcopy and description.
func matchKeyword(p *models.Product, keyword string) bool {
	if keyword == "" {
		return true
	}
	hay := strings.ToLower(p.ItemName + " " + p.Catchcopy + " " + p.Description)
	return strings.Contains(hay, keyword)
}

func matchPrice(p *models.Product, min, max *float64) bool {
	price := p.ItemPrice
	if math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}
	if min != nil && price < *min {
		return false
	}
	if max != nil && price > *max {
		return false
	}
	return true
}

// matchTags requires at least one product tag in the required set. An empty
// required set always passes.
func matchTags(p *models.Product, required map[string]struct{}) bool {
	if len(required) == 0 {
		return true
	}
	for _, t := range p.Tags {
		if _, ok := required[t]; ok {
			return true
		}
	}
	return false
}

// sortProducts orders in place, stable for ties so that equal products keep
// their input order.
func sortProducts(products []models.Product, sortBy models.SortKey) {
	switch sortBy {
	case models.SortByPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ItemPrice < products[j].ItemPrice
		})
	case models.SortByReview:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ReviewAverage > products[j].ReviewAverage
		})
	case models.SortByScore:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Score > products[j].Score
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].RankOrder() < products[j].RankOrder()
		})
	}
}

// ChartPoint is one bubble in the price/rating scatter view.
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Label string  `json:"label"`
	ID    string  `json:"id"`
}

// ChartPoints maps an ordered product list to scatter-chart bubbles. Bubble
// radius grows with the square root of the review count, floored at 5.
func ChartPoints(products []models.Product) []ChartPoint {
	points := make([]ChartPoint, len(products))
	for i, p := range products {
		r := math.Sqrt(float64(p.ReviewCount)) / 10
		if r < 5 {
			r = 5
		}
		points[i] = ChartPoint{
			X:     p.ItemPrice,
			Y:     p.ReviewAverage,
			R:     r,
			Label: fmt.Sprintf("[%d位] %s", i+1, p.ItemName),
			ID:    p.ID(),
		}
	}
	return points
}
