package models

import "math"

// Product represents one ranked catalog item in the shape produced by the
// daily ranking collector (Rakuten Ichiba ranking payload).
// Numeric fields are coerced at ingestion: missing or non-finite values become 0.
type Product struct {
	Rank          int      `json:"rank,omitempty"`
	ItemCode      string   `json:"itemCode,omitempty"`
	ItemName      string   `json:"itemName"`
	ItemPrice     float64  `json:"itemPrice"`
	ReviewAverage float64  `json:"reviewAverage"`
	ReviewCount   int      `json:"reviewCount"`
	Catchcopy     string   `json:"catchcopy,omitempty"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	AffiliateURL  string   `json:"affiliateUrl,omitempty"`
	PointRate     int      `json:"pointRate,omitempty"`
	ShopName      string   `json:"shopName,omitempty"`
	Tags          []string `json:"tags"`

	// Score is transient: attached by the scoring pass on every pipeline run,
	// never persisted.
	Score float64 `json:"score,omitempty"`
}

// rankSentinel places products without an explicit rank last when sorting by rank.
const rankSentinel = 999

// ID returns the stable identity key used by favorites, compare selection and
// rendering. Items without an item code fall back to a name-derived key;
// collisions on identical names are accepted.
func (p *Product) ID() string {
	if p.ItemCode != "" {
		return p.ItemCode
	}
	return "name:" + p.ItemName
}

// RankOrder returns the rank used for ordering, with missing ranks pushed last.
func (p *Product) RankOrder() int {
	if p.Rank <= 0 {
		return rankSentinel
	}
	return p.Rank
}

// Normalize coerces malformed numeric fields to safe defaults so that a single
// bad record never breaks the pipeline.
func (p *Product) Normalize() {
	if math.IsNaN(p.ItemPrice) || math.IsInf(p.ItemPrice, 0) || p.ItemPrice < 0 {
		p.ItemPrice = 0
	}
	if math.IsNaN(p.ReviewAverage) || math.IsInf(p.ReviewAverage, 0) || p.ReviewAverage < 0 {
		p.ReviewAverage = 0
	}
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}
	if p.Rank < 0 {
		p.Rank = 0
	}
}

// PriceBounds holds the min/max item price over the current catalog.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
