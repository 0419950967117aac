package service

import (
	"math"

	"github.com/rakurank/rakurank_api/internal/models"
)

// Composite score weights. These exact values are part of the displayed-score
// contract and must not drift.
const (
	weightPrice   = 0.34
	weightRating  = 0.33
	weightReviews = 0.33
)

type minMax struct {
	min, max float64
}

func boundsOf(vals []float64) minMax {
	b := minMax{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range vals {
		if v < b.min {
			b.min = v
		}
		if v > b.max {
			b.max = v
		}
	}
	return b
}

// normalize rescales v into [0,1] relative to the observed bounds. When the
// set has no spread, or any bound is non-finite, the value is neutral (0.5).
func normalize(v float64, b minMax, higherIsBetter bool) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) ||
		math.IsNaN(b.min) || math.IsInf(b.min, 0) ||
		math.IsNaN(b.max) || math.IsInf(b.max, 0) ||
		b.max == b.min {
		return 0.5
	}
	t := (v - b.min) / (b.max - b.min)
	if !higherIsBetter {
		return 1 - t
	}
	return t
}

// ComputeScores attaches a composite score to every product, normalizing
// price (lower is better), rating and review count (higher is better) over
// the bounds of the given list. It is pure: the input slice is not mutated,
// and callers choose whether the bounds come from the full catalog or a
// filtered subset.
func ComputeScores(products []models.Product) []models.Product {
	if len(products) == 0 {
		return []models.Product{}
	}

	prices := make([]float64, len(products))
	ratings := make([]float64, len(products))
	reviews := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.ItemPrice
		ratings[i] = p.ReviewAverage
		reviews[i] = float64(p.ReviewCount)
	}
	pb := boundsOf(prices)
	rb := boundsOf(ratings)
	cb := boundsOf(reviews)

	out := make([]models.Product, len(products))
	for i, p := range products {
		sPrice := normalize(p.ItemPrice, pb, false)
		sRating := normalize(p.ReviewAverage, rb, true)
		sReviews := normalize(float64(p.ReviewCount), cb, true)
		score := sPrice*weightPrice + sRating*weightRating + sReviews*weightReviews
		p.Score = math.Round(score*10000) / 10000
		out[i] = p
	}
	return out
}
