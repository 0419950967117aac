package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakurank/rakurank_api/internal/cache"
	"github.com/rakurank/rakurank_api/internal/service"
)

func stateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stateCache := cache.NewStateCache(cache.NewMemoryStore())
	h := NewStateHandler(service.NewStateService(stateCache))

	router := gin.New()
	group := router.Group("/v1/profiles/:profileId")
	group.GET("/state", h.GetState)
	group.PUT("/state", h.PutState)
	group.PUT("/theme", h.PutTheme)
	group.GET("/favorites", h.GetFavorites)
	group.POST("/favorites/:itemId/toggle", h.ToggleFavorite)
	return router
}

func doJSONRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestStateEndpoints(t *testing.T) {
	t.Run("state round trip", func(t *testing.T) {
		router := stateRouter(t)

		w := doJSONRequest(router, http.MethodPut, "/v1/profiles/p1/state",
			`{"sortBy":"score","filters":{"keyword":"ワンピース","rating":4.0}}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = doRequest(router, http.MethodGet, "/v1/profiles/p1/state")
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Contains(t, string(env.Data["state"]), `"sortBy":"score"`)
		assert.JSONEq(t, `"light"`, string(env.Data["theme"]))
	})

	t.Run("fresh profile gets defaults", func(t *testing.T) {
		router := stateRouter(t)
		w := doRequest(router, http.MethodGet, "/v1/profiles/new/state")
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Contains(t, string(env.Data["state"]), `"sortBy":"rank"`)
	})

	t.Run("invalid state body", func(t *testing.T) {
		router := stateRouter(t)
		w := doJSONRequest(router, http.MethodPut, "/v1/profiles/p1/state", `{broken`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("theme", func(t *testing.T) {
		router := stateRouter(t)
		w := doJSONRequest(router, http.MethodPut, "/v1/profiles/p1/theme", `{"theme":"dark"}`)
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.JSONEq(t, `"dark"`, string(env.Data["theme"]))
	})

	t.Run("favorite toggle", func(t *testing.T) {
		router := stateRouter(t)

		w := doRequest(router, http.MethodPost, "/v1/profiles/p1/favorites/shop:1/toggle")
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.JSONEq(t, `true`, string(env.Data["favorited"]))

		w = doRequest(router, http.MethodGet, "/v1/profiles/p1/favorites")
		env = decodeEnvelope(t, w)
		assert.JSONEq(t, `["shop:1"]`, string(env.Data["favorites"]))

		w = doRequest(router, http.MethodPost, "/v1/profiles/p1/favorites/shop:1/toggle")
		env = decodeEnvelope(t, w)
		assert.JSONEq(t, `false`, string(env.Data["favorited"]))
	})
}
