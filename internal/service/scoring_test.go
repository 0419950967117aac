package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakurank/rakurank_api/internal/models"
)

func threeProducts() []models.Product {
	return []models.Product{
		{Rank: 1, ItemCode: "shop:1", ItemName: "商品A", ItemPrice: 1000, ReviewAverage: 4.0, ReviewCount: 10},
		{Rank: 2, ItemCode: "shop:2", ItemName: "商品B", ItemPrice: 2000, ReviewAverage: 4.5, ReviewCount: 100},
		{Rank: 3, ItemCode: "shop:3", ItemName: "商品C", ItemPrice: 3000, ReviewAverage: 5.0, ReviewCount: 1000},
	}
}

func TestComputeScores(t *testing.T) {
	t.Run("empty list yields empty result", func(t *testing.T) {
		assert.Empty(t, ComputeScores(nil))
		assert.Empty(t, ComputeScores([]models.Product{}))
	})

	t.Run("normalizes each criterion over the list bounds", func(t *testing.T) {
		scored := ComputeScores(threeProducts())
		require.Len(t, scored, 3)

		// Cheapest with worst rating and fewest reviews: price contributes
		// its full weight, the rest contribute nothing.
		assert.Equal(t, 0.34, scored[0].Score)
		// Most expensive, best rated, most reviewed.
		assert.Equal(t, 0.66, scored[2].Score)
		// Middle product: price and rating halfway, reviews at 90/990.
		assert.Equal(t, 0.365, scored[1].Score)
	})

	t.Run("scores stay within zero and one", func(t *testing.T) {
		for _, p := range ComputeScores(threeProducts()) {
			assert.GreaterOrEqual(t, p.Score, 0.0)
			assert.LessOrEqual(t, p.Score, 1.0)
		}
	})

	t.Run("criterion with no spread contributes half its weight", func(t *testing.T) {
		products := []models.Product{
			{ItemCode: "a", ItemPrice: 1500, ReviewAverage: 4.0, ReviewCount: 10},
			{ItemCode: "b", ItemPrice: 1500, ReviewAverage: 5.0, ReviewCount: 1000},
		}
		scored := ComputeScores(products)
		require.Len(t, scored, 2)
		// price neutral at 0.5*0.34 = 0.17 for both
		assert.Equal(t, 0.17, scored[0].Score)
		assert.Equal(t, 0.83, scored[1].Score)
	})

	t.Run("non-finite value scores neutral", func(t *testing.T) {
		products := []models.Product{
			{ItemCode: "a", ItemPrice: 1000, ReviewAverage: 4.0, ReviewCount: 10},
			{ItemCode: "b", ItemPrice: 3000, ReviewAverage: 4.5, ReviewCount: 20},
		}
		got := normalize(math.NaN(), minMax{min: 1000, max: 3000}, false)
		assert.Equal(t, 0.5, got)
		got = normalize(1000, minMax{min: math.Inf(-1), max: 3000}, false)
		assert.Equal(t, 0.5, got)

		scored := ComputeScores(products)
		require.Len(t, scored, 2)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		in := threeProducts()
		_ = ComputeScores(in)
		for _, p := range in {
			assert.Zero(t, p.Score)
		}
	})

	t.Run("rounds to four decimals", func(t *testing.T) {
		products := []models.Product{
			{ItemCode: "a", ItemPrice: 1000, ReviewAverage: 4.0, ReviewCount: 3},
			{ItemCode: "b", ItemPrice: 2000, ReviewAverage: 4.1, ReviewCount: 7},
			{ItemCode: "c", ItemPrice: 3000, ReviewAverage: 4.7, ReviewCount: 9},
		}
		for _, p := range ComputeScores(products) {
			assert.Equal(t, math.Round(p.Score*10000)/10000, p.Score)
		}
	})
}

func TestScoreStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", scoreStars(0))
	assert.Equal(t, "★★★☆☆", scoreStars(0.5))
	assert.Equal(t, "★★★★★", scoreStars(1))
	assert.Equal(t, "★★★★★", scoreStars(1.7))
	assert.Equal(t, "☆☆☆☆☆", scoreStars(-0.3))
}
