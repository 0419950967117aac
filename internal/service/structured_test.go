package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakurank/rakurank_api/internal/catalog"
	"github.com/rakurank/rakurank_api/internal/models"
)

func TestImageURLWithSize(t *testing.T) {
	t.Run("replaces an existing size parameter", func(t *testing.T) {
		got := imageURLWithSize("https://thumbnail.image.rakuten.co.jp/img/a.jpg?_ex=128x128", "1200")
		assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/img/a.jpg?_ex=1200x1200", got)
	})

	t.Run("appends when no query string", func(t *testing.T) {
		got := imageURLWithSize("https://example.com/a.jpg", "1200")
		assert.Equal(t, "https://example.com/a.jpg?_ex=1200x1200", got)
	})

	t.Run("appends with ampersand when a query exists", func(t *testing.T) {
		got := imageURLWithSize("https://example.com/a.jpg?v=2", "1200")
		assert.Equal(t, "https://example.com/a.jpg?v=2&_ex=1200x1200", got)
	})

	t.Run("empty URL passes through", func(t *testing.T) {
		assert.Equal(t, "", imageURLWithSize("", "1200"))
	})
}

func TestStructuredItemList(t *testing.T) {
	store := catalog.NewStore()
	require.NoError(t, store.Replace([]models.Product{
		{
			Rank:          1,
			ItemCode:      "shop:1",
			ItemName:      "冷感ワンピース",
			ItemPrice:     2980,
			ReviewAverage: 4.5,
			ReviewCount:   320,
			Catchcopy:     "ひんやり素材",
			ImageURL:      "https://example.com/a.jpg?_ex=128x128",
			AffiliateURL:  "https://hb.afl.rakuten.co.jp/aaa",
		},
	}))
	svc := NewStructuredDataService(store, "おすすめまとめ", "夏の人気アイテム", "https://example.jp/")

	doc := svc.ItemList()
	assert.Equal(t, "https://schema.org", doc["@context"])
	assert.Equal(t, "ItemList", doc["@type"])
	assert.Equal(t, "おすすめまとめ", doc["name"])
	assert.Equal(t, 1, doc["numberOfItems"])

	elements, ok := doc["itemListElement"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, elements, 1)
	assert.Equal(t, 1, elements[0]["position"])
	assert.Equal(t, "https://hb.afl.rakuten.co.jp/aaa", elements[0]["url"])

	item, ok := elements[0]["item"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "冷感ワンピース", item["name"])
	// No description on the record: the catchcopy fills in.
	assert.Equal(t, "ひんやり素材", item["description"])

	images, ok := item["image"].([]string)
	require.True(t, ok)
	require.Len(t, images, 2)
	assert.Contains(t, images[1], "_ex=1200x1200")

	offers, ok := item["offers"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "JPY", offers["priceCurrency"])
	assert.Equal(t, 2980.0, offers["price"])
}

func TestStructuredBreadcrumb(t *testing.T) {
	store := catalog.NewStore()
	svc := NewStructuredDataService(store, "おすすめまとめ", "", "https://example.jp/")

	doc := svc.Breadcrumb()
	assert.Equal(t, "BreadcrumbList", doc["@type"])

	elements, ok := doc["itemListElement"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, elements, 3)
	// Trailing slash on the base URL is trimmed once.
	assert.Equal(t, "https://example.jp", elements[0]["item"])
	assert.Equal(t, "https://example.jp/article/", elements[1]["item"])
}
