package models

// SortKey enumerates the supported list orderings.
type SortKey string

const (
	SortByRank   SortKey = "rank"
	SortByPrice  SortKey = "price"
	SortByReview SortKey = "review"
	SortByScore  SortKey = "score"
)

// ParseSortKey maps a raw string to a SortKey, defaulting to rank order.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPrice, SortByReview, SortByScore:
		return SortKey(s)
	default:
		return SortByRank
	}
}

// Criteria is the full set of active filter constraints. Every field is
// independently optional; the zero value passes every product.
type Criteria struct {
	Keyword  string   `json:"keyword"`
	PriceMin *float64 `json:"priceMin"`
	PriceMax *float64 `json:"priceMax"`
	Rating   float64  `json:"rating"`
	Reviews  int      `json:"reviews"`
	Tags     []string `json:"tags"`
	FavOnly  bool     `json:"favOnly"`
}

// TagSet returns the required-tag constraint as a set. Empty means no constraint.
func (c *Criteria) TagSet() map[string]struct{} {
	if len(c.Tags) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(c.Tags))
	for _, t := range c.Tags {
		set[t] = struct{}{}
	}
	return set
}
