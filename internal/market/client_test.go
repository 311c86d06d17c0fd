package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/mselser95/crypto-tracker/internal/testutil"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Fetch(t *testing.T) {
	var gotQuery url.Values
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"USD":1.23}`))
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{
		BaseURL: server.URL + "/data",
		APIKey:  "test-key",
		Logger:  zap.NewNop(),
	})

	params := url.Values{}
	params.Set("fsym", "BTC")
	body, err := client.Fetch(context.Background(), EndpointPrice, params)
	require.NoError(t, err)

	assert.JSONEq(t, `{"USD":1.23}`, string(body))
	assert.Equal(t, "/data/price", gotPath)
	assert.Equal(t, "BTC", gotQuery.Get("fsym"))
	assert.Equal(t, "test-key", gotQuery.Get("api_key"))
	assert.Empty(t, params.Get("api_key"), "caller params must not be mutated")
}

func TestClient_Fetch_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{BaseURL: server.URL, Logger: zap.NewNop()})

	_, err := client.Fetch(context.Background(), EndpointGlobal, url.Values{})
	require.Error(t, err)

	var transportErr *types.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusTooManyRequests, transportErr.StatusCode)
	assert.Equal(t, EndpointGlobal, transportErr.Endpoint)
	assert.Equal(t, types.KindTransport, types.ErrorKind(err))
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(&ClientConfig{
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
		Logger:  zap.NewNop(),
	})

	start := time.Now()
	_, err := client.Fetch(context.Background(), EndpointPrice, url.Values{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, types.KindTransport, types.ErrorKind(err))
}

func TestClient_DefaultTimeout(t *testing.T) {
	client := NewClient(&ClientConfig{BaseURL: "http://example.invalid", Logger: zap.NewNop()})

	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}

func TestAccessor_WithHTTPClient(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"USD":42}`))
	}))
	defer server.Close()

	a, _, _ := newTestAccessor(NewClient(&ClientConfig{BaseURL: server.URL, Logger: zap.NewNop()}))

	for n := 0; n < 3; n++ {
		snap, ok := a.CurrentPrice(context.Background(), "sol")
		require.True(t, ok)
		assert.Equal(t, 42.0, snap.USDPrice)
	}

	assert.Equal(t, 1, requests)
}

func TestAccessor_AgainstMockAPI(t *testing.T) {
	api := testutil.NewMockCryptoCompareAPI()
	defer api.Close()

	api.Respond(EndpointHistoDay, testutil.HistoDayBody(1714521600, 3000, 3100, 3050))
	api.Respond(EndpointGlobal, testutil.GlobalBody(2.5e12, 9e10, 10234))
	api.Respond(EndpointTopTotalVol, testutil.TopVolumeBody(testutil.CoinsWithChanges(4, -3, 9, -7)...))

	a, _, _ := newTestAccessor(NewClient(&ClientConfig{
		BaseURL: api.URL,
		APIKey:  "secret",
		Logger:  zap.NewNop(),
	}))
	ctx := context.Background()

	series, ok := a.Historical(ctx, "eth", 3)
	require.True(t, ok)
	assert.Equal(t, []float64{3000, 3100, 3050}, series.Closes())

	_, ok = a.Historical(ctx, "eth", 3)
	require.True(t, ok)
	assert.Equal(t, 2, api.Hits(EndpointHistoDay), "historical data is never cached")

	stats, ok := a.GlobalStats(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(10234), stats.ActiveCryptocurrencies)

	movers, ok := a.TopMovers(ctx, 2)
	require.True(t, ok)
	require.Len(t, movers.Gainers, 2)
	assert.Equal(t, 9.0, movers.Gainers[0].ChangePct24h)
	assert.Equal(t, -7.0, movers.Losers[0].ChangePct24h)

	queries := api.Queries(EndpointTopTotalVol)
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "limit=4")
	assert.Contains(t, queries[0], "api_key=secret")
}

func TestAccessor_MockAPIErrorEnvelope(t *testing.T) {
	api := testutil.NewMockCryptoCompareAPI()
	defer api.Close()

	api.Respond(EndpointPrice, testutil.ErrorBody("fsym param is invalid"))
	api.RespondStatus(EndpointGlobal, http.StatusTooManyRequests, `{"Response":"Error"}`)

	a, c, _ := newTestAccessor(NewClient(&ClientConfig{BaseURL: api.URL, Logger: zap.NewNop()}))
	ctx := context.Background()

	_, ok := a.CurrentPrice(ctx, "NOPE")
	assert.False(t, ok)
	_, ok = a.GlobalStats(ctx)
	assert.False(t, ok)

	assert.Equal(t, 0, c.Len(), "rejected responses are never cached")
}
