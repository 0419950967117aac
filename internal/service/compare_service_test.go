package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakurank/rakurank_api/internal/cache"
	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/models"
	"github.com/rakurank/rakurank_api/internal/utils"
)

func compareFixture(t *testing.T) (*CompareService, *cache.StateCache) {
	t.Helper()
	store := catalog.NewStore()
	require.NoError(t, store.Replace([]models.Product{
		{Rank: 1, ItemCode: "shop:1", ItemName: "商品A", ItemPrice: 1000, ReviewAverage: 4.0, ReviewCount: 10},
		{Rank: 2, ItemCode: "shop:2", ItemName: "商品B", ItemPrice: 2000, ReviewAverage: 4.5, ReviewCount: 100},
		{Rank: 3, ItemCode: "shop:3", ItemName: "商品C", ItemPrice: 3000, ReviewAverage: 5.0, ReviewCount: 1000},
		{Rank: 4, ItemCode: "shop:4", ItemName: "商品D", ItemPrice: 4000, ReviewAverage: 3.5, ReviewCount: 50},
	}))
	stateCache := cache.NewStateCache(cache.NewMemoryStore())
	return NewCompareService(stateCache, store), stateCache
}

func TestCompareServiceAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown product is rejected", func(t *testing.T) {
		svc, _ := compareFixture(t)
		err := svc.Add(ctx, "p1", "shop:999")
		assert.ErrorIs(t, err, utils.ErrProductNotFound)
	})

	t.Run("adding the same product twice is a no-op", func(t *testing.T) {
		svc, _ := compareFixture(t)
		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
		items, err := svc.Items(ctx, "p1")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("fourth distinct product is rejected and the selection unchanged", func(t *testing.T) {
		svc, _ := compareFixture(t)
		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
		require.NoError(t, svc.Add(ctx, "p1", "shop:2"))
		require.NoError(t, svc.Add(ctx, "p1", "shop:3"))

		err := svc.Add(ctx, "p1", "shop:4")
		assert.ErrorIs(t, err, utils.ErrCompareLimit)

		items, err := svc.Items(ctx, "p1")
		require.NoError(t, err)
		assert.Len(t, items, 3)
		assert.NotContains(t, items, "shop:4")
	})

	t.Run("selections are per profile", func(t *testing.T) {
		svc, _ := compareFixture(t)
		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
		items, err := svc.Items(ctx, "p2")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCompareServiceRemoveClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := compareFixture(t)

	require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
	require.NoError(t, svc.Add(ctx, "p1", "shop:2"))

	require.NoError(t, svc.Remove(ctx, "p1", "shop:1"))
	items, err := svc.Items(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shop:2"}, items)

	require.NoError(t, svc.Clear(ctx, "p1"))
	items, err = svc.Items(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCompareServiceTable(t *testing.T) {
	ctx := context.Background()

	t.Run("fewer than two selections cannot be compared", func(t *testing.T) {
		svc, _ := compareFixture(t)
		_, err := svc.Table(ctx, "p1")
		assert.ErrorIs(t, err, utils.ErrCompareTooFew)

		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
		_, err = svc.Table(ctx, "p1")
		assert.ErrorIs(t, err, utils.ErrCompareTooFew)
	})

	t.Run("marks best price, rating and reviews", func(t *testing.T) {
		svc, _ := compareFixture(t)
		require.NoError(t, svc.Add(ctx, "p1", "shop:3"))
		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))

		table, err := svc.Table(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, table.Entries, 2)

		// Columns keep catalog order regardless of selection order.
		first, second := table.Entries[0], table.Entries[1]
		assert.Equal(t, "shop:1", first.Product.ItemCode)
		assert.Equal(t, "shop:3", second.Product.ItemCode)

		assert.True(t, first.BestPrice)
		assert.False(t, first.BestRating)
		assert.False(t, first.BestReviews)
		assert.False(t, second.BestPrice)
		assert.True(t, second.BestRating)
		assert.True(t, second.BestReviews)
	})

	t.Run("scores the selection as its own set", func(t *testing.T) {
		svc, _ := compareFixture(t)
		require.NoError(t, svc.Add(ctx, "p1", "shop:1"))
		require.NoError(t, svc.Add(ctx, "p1", "shop:3"))

		table, err := svc.Table(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, table.Entries, 2)

		assert.Equal(t, 0.34, table.Entries[0].Product.Score)
		assert.Equal(t, 0.66, table.Entries[1].Product.Score)
		assert.Equal(t, 34.0, table.Entries[0].ScorePercent)
		assert.Equal(t, 66.0, table.Entries[1].ScorePercent)
		assert.Equal(t, "★★☆☆☆", table.Entries[0].Stars)
		assert.Equal(t, "★★★☆☆", table.Entries[1].Stars)
	})
}
