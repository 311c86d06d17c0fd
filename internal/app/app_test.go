package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/internal/storage"
	"github.com/mselser95/crypto-tracker/internal/testutil"
	"github.com/mselser95/crypto-tracker/pkg/cache"
	"github.com/mselser95/crypto-tracker/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		LogLevel:             "info",
		HTTPPort:             "0",
		CryptoCompareBaseURL: baseURL,
		RequestTimeout:       2 * time.Second,
		CacheBackend:         "memory",
		CacheDefaultTTL:      5 * time.Minute,
		CacheMoversTTL:       5 * time.Minute,
		CacheMaxItems:        100,
		AlertCheckSchedule:   "@every 1m",
		DashboardSymbols:     "BTC,ETH",
		StorageMode:          "console",
	}
}

func TestSetupCache(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		check   func(t *testing.T, c cache.Cache)
	}{
		{
			name:    "memory",
			backend: "memory",
			check: func(t *testing.T, c cache.Cache) {
				ttl, ok := c.(*cache.TTLCache)
				require.True(t, ok, "expected *cache.TTLCache, got %T", c)
				assert.Equal(t, 5*time.Minute, ttl.DefaultTTL())
			},
		},
		{
			name:    "ristretto",
			backend: "ristretto",
			check: func(t *testing.T, c cache.Cache) {
				_, ok := c.(*cache.RistrettoCache)
				assert.True(t, ok, "expected *cache.RistrettoCache, got %T", c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("http://unused")
			cfg.CacheBackend = tt.backend

			c, err := setupCache(cfg, zap.NewNop())
			require.NoError(t, err)
			defer c.Close()

			tt.check(t, c)
		})
	}
}

func TestSetupStorage_Console(t *testing.T) {
	s, err := setupStorage(context.Background(), testConfig("http://unused"), zap.NewNop())
	require.NoError(t, err)

	_, ok := s.(*storage.ConsoleStorage)
	assert.True(t, ok, "expected console storage, got %T", s)
}

func TestSetupEvaluator_SeedsAlerts(t *testing.T) {
	evaluator := setupEvaluator(zap.NewNop(), &Options{
		Alerts: []alerts.Thresholds{
			{Symbol: "eth", High: 4000, Low: 2000},
			{Symbol: "BTC", High: 70000, Low: 60000},
		},
	})

	assert.Equal(t, []string{"ETH", "BTC"}, evaluator.Symbols())
}

func TestNew_WiresComponents(t *testing.T) {
	api := testutil.NewMockCryptoCompareAPI()
	defer api.Close()
	api.Respond("/price", testutil.PriceBody(71000.25))

	a, err := New(testConfig(api.URL), zap.NewNop(), nil)
	require.NoError(t, err)
	defer func() {
		_ = a.Shutdown()
	}()

	assert.NotNil(t, a.httpServer)
	assert.NotNil(t, a.accessor)
	assert.NotNil(t, a.watcher)
	assert.NotNil(t, a.storage)

	// Served through the API and cached for the second request.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/price/btc", nil)
		w := httptest.NewRecorder()
		a.httpServer.Handler().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"usd_price":71000.25`)
	}
	assert.Equal(t, 1, api.Hits("/price"))
}

func TestNew_InvalidSchedule(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.AlertCheckSchedule = "whenever"

	_, err := New(cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestWatcher_UsesAccessorPrices(t *testing.T) {
	api := testutil.NewMockCryptoCompareAPI()
	defer api.Close()
	api.Respond("/price", testutil.PriceBody(71000.25))

	a, err := New(testConfig(api.URL), zap.NewNop(), &Options{
		Alerts: []alerts.Thresholds{{Symbol: "BTC", High: 70000, Low: 60000}},
	})
	require.NoError(t, err)
	defer func() {
		_ = a.Shutdown()
	}()

	events := a.watcher.CheckNow(context.Background())
	require.Len(t, events, 1)
	assert.Equal(t, "BTC", events[0].Symbol)
	assert.Equal(t, alerts.Above, events[0].Direction)
	assert.Equal(t, 71000.25, events[0].Price)
}
