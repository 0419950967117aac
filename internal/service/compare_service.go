package service

import (
	"context"
	"math"
	"strings"

	"github.com/rakurank/rakurank_api/internal/cache"
	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// compareLimit caps the compare selection. Adding beyond it is rejected with
// a user-visible notice; the selection stays unchanged.
const compareLimit = 3

// CompareService manages per-profile compare selections and builds the
// comparison table payload.
type CompareService struct {
	cache *cache.StateCache
	store *catalog.Store
}

// NewCompareService constructs a CompareService.
func NewCompareService(stateCache *cache.StateCache, store *catalog.Store) *CompareService {
	return &CompareService{cache: stateCache, store: store}
}

// Items returns the current selection.
func (s *CompareService) Items(ctx context.Context, profileID string) ([]string, error) {
	return s.cache.CompareItems(ctx, profileID)
}

// Add puts a product into the compare selection. Unknown products and
// selections already at the cap are rejected.
func (s *CompareService) Add(ctx context.Context, profileID, itemID string) error {
	if s.findProduct(itemID) == nil {
		return utils.ErrProductNotFound
	}
	items, err := s.cache.CompareItems(ctx, profileID)
	if err != nil {
		return err
	}
	for _, id := range items {
		if id == itemID {
			return nil // already selected
		}
	}
	if len(items) >= compareLimit {
		return utils.ErrCompareLimit
	}
	return s.cache.AddCompare(ctx, profileID, itemID)
}

// Remove takes a product out of the compare selection.
func (s *CompareService) Remove(ctx context.Context, profileID, itemID string) error {
	return s.cache.RemoveCompare(ctx, profileID, itemID)
}

// Clear empties the compare selection.
func (s *CompareService) Clear(ctx context.Context, profileID string) error {
	return s.cache.ClearCompare(ctx, profileID)
}

// CompareEntry is one column of the comparison table.
type CompareEntry struct {
	Product      models.Product `json:"product"`
	BestPrice    bool           `json:"bestPrice"`
	BestRating   bool           `json:"bestRating"`
	BestReviews  bool           `json:"bestReviews"`
	Stars        string         `json:"stars"`
	ScorePercent float64        `json:"scorePercent"`
}

// CompareTable is the comparison view payload. Best-value markers follow the
// original table: price = cheapest, rating = highest, reviews = most.
type CompareTable struct {
	Entries []CompareEntry `json:"entries"`
}

// Table builds the comparison table for the current selection. At least two
// selected products are required for a comparison to make sense.
func (s *CompareService) Table(ctx context.Context, profileID string) (*CompareTable, error) {
	ids, err := s.cache.CompareItems(ctx, profileID)
	if err != nil {
		return nil, err
	}
	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	// Walk the catalog so columns keep catalog order.
	items := make([]models.Product, 0, compareLimit)
	for _, p := range s.store.Products() {
		if _, ok := selected[p.ID()]; ok {
			items = append(items, p)
		}
	}
	if len(items) < 2 {
		return nil, utils.ErrCompareTooFew
	}

	bestPrice := math.Inf(1)
	bestRating := 0.0
	bestReviews := 0
	for _, p := range items {
		if p.ItemPrice < bestPrice {
			bestPrice = p.ItemPrice
		}
		if p.ReviewAverage > bestRating {
			bestRating = p.ReviewAverage
		}
		if p.ReviewCount > bestReviews {
			bestReviews = p.ReviewCount
		}
	}

	scored := ComputeScores(items)
	entries := make([]CompareEntry, len(scored))
	for i, p := range scored {
		entries[i] = CompareEntry{
			Product:      p,
			BestPrice:    p.ItemPrice == bestPrice,
			BestRating:   p.ReviewAverage == bestRating,
			BestReviews:  p.ReviewCount == bestReviews,
			Stars:        scoreStars(p.Score),
			ScorePercent: math.Round(p.Score*1000) / 10,
		}
	}
	return &CompareTable{Entries: entries}, nil
}

// scoreStars renders a composite score as a five-star string.
func scoreStars(score float64) string {
	n := int(math.Round(score * 5))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func (s *CompareService) findProduct(itemID string) *models.Product {
	for _, p := range s.store.Products() {
		if p.ID() == itemID {
			return &p
		}
	}
	return nil
}
