package rakuten

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient builds a client with tight timing so retry paths stay fast.
func testClient(server *httptest.Server) *Client {
	return &Client{
		httpClient:    server.Client(),
		applicationID: "test-app-id",
		affiliateID:   "test-affiliate",
		minInterval:   time.Millisecond,
		maxRetries:    3,
		backoffFactor: 1.0,
		rankingURL:    server.URL + "/ranking",
		genreURL:      server.URL + "/genre",
		searchURL:     server.URL + "/search",
	}
}

func TestFetchRanking(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"applicationId": r.URL.Query().Get("applicationId"),
			"affiliateId":   r.URL.Query().Get("affiliateId"),
			"genreId":       r.URL.Query().Get("genreId"),
			"hits":          r.URL.Query().Get("hits"),
		}
		w.Write([]byte(`{
			"title": "ランキング",
			"Items": [
				{"Item": {"rank": 1, "itemCode": "shop:1", "itemName": "商品A", "itemPrice": "2980", "reviewCount": 320, "reviewAverage": "4.5"}},
				{"Item": {"rank": 2, "itemCode": "shop:2", "itemName": "商品B", "itemPrice": 4980, "reviewCount": "85", "reviewAverage": 4.1}}
			]
		}`))
	}))
	defer server.Close()

	client := testClient(server)
	resp, err := client.FetchRanking(context.Background(), 100371, 30)
	require.NoError(t, err)

	assert.Equal(t, "test-app-id", gotQuery["applicationId"])
	assert.Equal(t, "test-affiliate", gotQuery["affiliateId"])
	assert.Equal(t, "100371", gotQuery["genreId"])
	assert.Equal(t, "30", gotQuery["hits"])

	items := resp.Ranked()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Rank)
	assert.Equal(t, "shop:1", items[0].ItemCode)
	// Numeric fields arrive as strings or numbers depending on endpoint.
	assert.Equal(t, 2980.0, Float(items[0].ItemPrice))
	assert.Equal(t, 4.5, Float(items[0].ReviewAverage))
	assert.Equal(t, 85, Int(items[1].ReviewCount))
}

func TestFetchGenre(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("genreId"))
		w.Write([]byte(`{
			"children": [
				{"child": {"genreId": 100371, "genreName": "レディースファッション"}},
				{"child": {"genreId": 551177, "genreName": "メンズファッション"}}
			]
		}`))
	}))
	defer server.Close()

	client := testClient(server)
	resp, err := client.FetchGenre(context.Background(), 0)
	require.NoError(t, err)

	children := resp.ChildGenres()
	require.Len(t, children, 2)
	assert.Equal(t, 100371, children[0].GenreID)
	assert.Equal(t, "レディースファッション", children[0].GenreName)
}

func TestSearchByItemCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shop:1", r.URL.Query().Get("itemCode"))
		w.Write([]byte(`{
			"Items": [
				{"Item": {"itemCode": "shop:1", "itemName": "商品A", "itemCaption": "詳しい説明", "catchcopy": "人気"}}
			]
		}`))
	}))
	defer server.Close()

	client := testClient(server)
	resp, err := client.SearchByItemCode(context.Background(), "shop:1")
	require.NoError(t, err)

	results := resp.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "詳しい説明", results[0].ItemCaption)
}

func TestDoRequestBadRequestIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"wrong_parameter"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := testClient(server)
	_, err := client.FetchRanking(context.Background(), 1, 30)

	var nr *NonRetryableError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, 1, calls)
}

func TestDoRequestInBandErrorIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"error":"too_many_requests","error_description":"number of allowed requests has been exceeded"}`))
	}))
	defer server.Close()

	client := testClient(server)
	_, err := client.FetchRanking(context.Background(), 1, 30)

	var nr *NonRetryableError
	require.ErrorAs(t, err, &nr)
	assert.Contains(t, nr.Msg, "allowed requests")
	assert.Equal(t, 1, calls)
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream error", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"Items": [{"Item": {"rank": 1, "itemCode": "shop:1", "itemName": "商品A"}}]}`))
	}))
	defer server.Close()

	client := testClient(server)
	resp, err := client.FetchRanking(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, resp.Ranked(), 1)
}

func TestDoRequestGivesUpAfterMaxRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server)
	_, err := client.FetchRanking(context.Background(), 1, 30)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestRespectRateLimitHonorsContext(t *testing.T) {
	client := &Client{minInterval: time.Hour, lastRequest: time.Now()}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := client.respectRateLimit(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFloatAndInt(t *testing.T) {
	assert.Equal(t, 2980.0, Float("2980"))
	assert.Equal(t, 0.0, Float(""))
	assert.Equal(t, 0.0, Float("abc"))
	assert.Equal(t, 85, Int("85"))
	assert.Equal(t, 85, Int("85.0"))
	assert.Equal(t, 0, Int("abc"))
}
