package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/config"
	httpDelivery "github.com/poi-tile-service/internal/delivery/http"
	"github.com/poi-tile-service/internal/delivery/http/handler"
	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/usecase"
)

func newTestServer(t *testing.T) *httpDelivery.Server {
	t.Helper()

	cfg := &config.Config{}
	logger := zap.NewNop()

	generator := usecase.NewSyntheticGenerator(10)
	tileUC := usecase.NewTileUseCase(nil, nil, generator, logger, 16, time.Minute)
	tileHandler := handler.NewTileHandler(tileUC, logger)

	return httpDelivery.NewServer(cfg, logger, tileHandler)
}

func TestServer_TileRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("serves tiles on the short path", func(t *testing.T) {
		resp, err := s.App().Test(newRequest("/16/15109/27038.json"), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var collection domain.FeatureCollection
		require.NoError(t, json.Unmarshal(body, &collection))
		assert.Equal(t, "FeatureCollection", collection.Type)
		assert.Len(t, collection.Features, 10)
	})

	t.Run("serves tiles on the aliased path", func(t *testing.T) {
		resp, err := s.App().Test(newRequest("/tiles/16/15109/27038.json"), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unsupported zoom returns 404", func(t *testing.T) {
		resp, err := s.App().Test(newRequest("/15/7554/13519.json"), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-numeric tile parameter returns 400", func(t *testing.T) {
		resp, err := s.App().Test(newRequest("/16/abc/27038.json"), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("health endpoint responds", func(t *testing.T) {
		resp, err := s.App().Test(newRequest("/api/v1/health"), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func newRequest(path string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return req
}
