package market

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mselser95/crypto-tracker/pkg/cache"
	"github.com/mselser95/crypto-tracker/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMoversLimit is used when a caller passes limit <= 0.
	DefaultMoversLimit = 5

	// DefaultMoversTTL is the TTL override for movers and trending results.
	DefaultMoversTTL = 5 * time.Minute

	// maxParallelFetches bounds concurrent price requests in CurrentPrices.
	maxParallelFetches = 4
)

// Accessor wraps the remote API with validation and caching.
// Every public method returns "no data" (nil/false) on failure and logs the
// underlying error with its kind.
type Accessor struct {
	fetcher   Fetcher
	cache     cache.Cache
	moversTTL time.Duration
	logger    *zap.Logger
}

// Config holds accessor configuration.
type Config struct {
	Fetcher   Fetcher
	Cache     cache.Cache // nil disables caching
	MoversTTL time.Duration
	Logger    *zap.Logger
}

// New creates a new market data accessor.
func New(cfg *Config) *Accessor {
	moversTTL := cfg.MoversTTL
	if moversTTL <= 0 {
		moversTTL = DefaultMoversTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Accessor{
		fetcher:   cfg.Fetcher,
		cache:     cfg.Cache,
		moversTTL: moversTTL,
		logger:    logger,
	}
}

// limitedResult remembers the limit a movers/trending result was fetched with.
type limitedResult[T any] struct {
	limit int
	value T
}

// cached returns the value stored under key, or loads, stores and returns it.
// The cache lock is never held while load runs. A ttl of zero selects the
// cache's default TTL.
func cached[T any](a *Accessor, key Key, ttl time.Duration, load func() (T, error)) (T, error) {
	if a.cache != nil {
		if v, ok := a.cache.Get(key.String()); ok {
			if typed, ok := v.(T); ok {
				AccessorCacheHitsTotal.WithLabelValues(key.Kind.String()).Inc()
				return typed, nil
			}
		}
		AccessorCacheMissesTotal.WithLabelValues(key.Kind.String()).Inc()
	}

	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	if a.cache != nil {
		a.cache.Set(key.String(), value, ttl)
	}

	return value, nil
}

func (a *Accessor) report(endpoint string, err error, fields ...zap.Field) {
	kind := types.ErrorKind(err)
	FetchErrorsTotal.WithLabelValues(endpoint, kind).Inc()

	fields = append(fields,
		zap.String("endpoint", endpoint),
		zap.String("kind", kind),
		zap.Error(err))
	a.logger.Warn("market-data-unavailable", fields...)
}

// CurrentPrice returns the USD spot price for symbol.
func (a *Accessor) CurrentPrice(ctx context.Context, symbol string) (*types.PriceSnapshot, bool) {
	key := PriceKey(symbol)

	snapshot, err := cached(a, key, 0, func() (types.PriceSnapshot, error) {
		params := url.Values{}
		params.Set("fsym", key.Symbol)
		params.Set("tsyms", "USD")

		body, err := a.fetcher.Fetch(ctx, EndpointPrice, params)
		if err != nil {
			return types.PriceSnapshot{}, err
		}
		return decodePrice(key.Symbol, body)
	})
	if err != nil {
		a.report(EndpointPrice, err, zap.String("symbol", key.Symbol))
		return nil, false
	}

	return &snapshot, true
}

// CurrentPrices fetches spot prices for symbols in parallel.
// Symbols with no data are absent from the result.
func (a *Accessor) CurrentPrices(ctx context.Context, symbols []string) map[string]float64 {
	var (
		mu     sync.Mutex
		prices = make(map[string]float64, len(symbols))
		g      errgroup.Group
	)
	g.SetLimit(maxParallelFetches)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			snapshot, ok := a.CurrentPrice(ctx, symbol)
			if !ok {
				return nil
			}
			mu.Lock()
			prices[snapshot.Symbol] = snapshot.USDPrice
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return prices
}

// Historical returns a daily series covering the last days days.
// Historical series are never cached.
func (a *Accessor) Historical(ctx context.Context, symbol string, days int) (*types.HistoricalSeries, bool) {
	symbol = NormalizeSymbol(symbol)

	params := url.Values{}
	params.Set("fsym", symbol)
	params.Set("tsym", "USD")
	params.Set("limit", strconv.Itoa(days))

	body, err := a.fetcher.Fetch(ctx, EndpointHistoDay, params)
	if err == nil {
		var series types.HistoricalSeries
		series, err = decodeHistorical(symbol, days, body)
		if err == nil {
			return &series, true
		}
	}

	a.report(EndpointHistoDay, err,
		zap.String("symbol", symbol),
		zap.Int("days", days))
	return nil, false
}

// GlobalStats returns market-wide totals.
func (a *Accessor) GlobalStats(ctx context.Context) (*types.GlobalStats, bool) {
	stats, err := cached(a, GlobalStatsKey(), 0, func() (types.GlobalStats, error) {
		body, err := a.fetcher.Fetch(ctx, EndpointGlobal, url.Values{})
		if err != nil {
			return types.GlobalStats{}, err
		}
		return decodeGlobalStats(body)
	})
	if err != nil {
		a.report(EndpointGlobal, err)
		return nil, false
	}

	return &stats, true
}

// TopMovers returns the top gainers and losers among the 2*limit coins with
// the highest total volume. The cached result is shared across limits.
func (a *Accessor) TopMovers(ctx context.Context, limit int) (*types.TopMoversResult, bool) {
	if limit <= 0 {
		limit = DefaultMoversLimit
	}
	key := MoversKey(limit)

	entry, err := cached(a, key, a.moversTTL, func() (limitedResult[types.TopMoversResult], error) {
		candidates, err := a.fetchTopByVolume(ctx, 2*limit)
		if err != nil {
			return limitedResult[types.TopMoversResult]{}, err
		}
		return limitedResult[types.TopMoversResult]{
			limit: limit,
			value: SplitMovers(candidates, limit),
		}, nil
	})
	if err != nil {
		a.report(EndpointTopTotalVol, err, zap.Int("limit", limit))
		return nil, false
	}

	a.noteLimitMismatch(key, entry.limit, limit)
	return &entry.value, true
}

// Trending returns the limit coins with the highest total volume.
// The cached result is shared across limits.
func (a *Accessor) Trending(ctx context.Context, limit int) ([]types.CoinEntry, bool) {
	if limit <= 0 {
		limit = DefaultMoversLimit
	}
	key := TrendingKey(limit)

	entry, err := cached(a, key, a.moversTTL, func() (limitedResult[[]types.CoinEntry], error) {
		coins, err := a.fetchTopByVolume(ctx, limit)
		if err != nil {
			return limitedResult[[]types.CoinEntry]{}, err
		}
		return limitedResult[[]types.CoinEntry]{limit: limit, value: coins}, nil
	})
	if err != nil {
		a.report(EndpointTopTotalVol, err, zap.Int("limit", limit))
		return nil, false
	}

	a.noteLimitMismatch(key, entry.limit, limit)
	return entry.value, true
}

func (a *Accessor) fetchTopByVolume(ctx context.Context, limit int) ([]types.CoinEntry, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("tsym", "USD")

	body, err := a.fetcher.Fetch(ctx, EndpointTopTotalVol, params)
	if err != nil {
		return nil, err
	}
	return decodeTopCoins(body)
}

func (a *Accessor) noteLimitMismatch(key Key, cachedLimit, requested int) {
	if cachedLimit == requested {
		return
	}
	LimitMismatchTotal.WithLabelValues(key.Kind.String()).Inc()
	a.logger.Debug("cached-result-limit-mismatch",
		zap.String("key", key.String()),
		zap.Int("cached-limit", cachedLimit),
		zap.Int("requested-limit", requested))
}
