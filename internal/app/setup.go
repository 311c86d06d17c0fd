package app

import (
	"context"
	"fmt"

	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/internal/market"
	"github.com/mselser95/crypto-tracker/internal/storage"
	"github.com/mselser95/crypto-tracker/internal/watcher"
	"github.com/mselser95/crypto-tracker/pkg/cache"
	"github.com/mselser95/crypto-tracker/pkg/config"
	"github.com/mselser95/crypto-tracker/pkg/healthprobe"
	"github.com/mselser95/crypto-tracker/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Initialize components
	healthChecker := setupHealthChecker()

	accessor, marketCache, err := NewMarketAccessor(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup market accessor: %w", err)
	}

	evaluator := setupEvaluator(logger, opts)

	// Setup storage
	eventStorage, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		cancel()
		marketCache.Close()
		return nil, fmt.Errorf("setup storage: %w", err)
	}
	registerStorageCheck(healthChecker, eventStorage)

	// Setup alert watcher
	alertWatcher, err := watcher.New(&watcher.Config{
		Schedule:  cfg.AlertCheckSchedule,
		Prices:    accessor,
		Evaluator: evaluator,
		Storage:   eventStorage,
		Logger:    logger,
	})
	if err != nil {
		cancel()
		marketCache.Close()
		_ = eventStorage.Close()
		return nil, fmt.Errorf("setup alert watcher: %w", err)
	}

	// Setup HTTP server (needs accessor and evaluator)
	httpServer := setupHTTPServer(cfg, logger, healthChecker, accessor, evaluator)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		cache:         marketCache,
		accessor:      accessor,
		evaluator:     evaluator,
		watcher:       alertWatcher,
		storage:       eventStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// NewMarketAccessor builds the configured cache backend and a market data
// accessor on top of it. The caller owns the returned cache.
func NewMarketAccessor(cfg *config.Config, logger *zap.Logger) (*market.Accessor, cache.Cache, error) {
	marketCache, err := setupCache(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup cache: %w", err)
	}

	client := market.NewClient(&market.ClientConfig{
		BaseURL: cfg.CryptoCompareBaseURL,
		APIKey:  cfg.CryptoCompareAPIKey,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	accessor := market.New(&market.Config{
		Fetcher:   client,
		Cache:     marketCache,
		MoversTTL: cfg.CacheMoversTTL,
		Logger:    logger,
	})

	return accessor, marketCache, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	accessor *market.Accessor,
	evaluator *alerts.Evaluator,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Market:        accessor,
		Alerts:        evaluator,
	})
}

func setupCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	if cfg.CacheBackend == "ristretto" {
		return cache.NewRistrettoCache(&cache.RistrettoConfig{
			NumCounters: cfg.CacheMaxItems * 10, // 10x expected max items
			MaxCost:     cfg.CacheMaxItems,
			BufferItems: 64,
			DefaultTTL:  cfg.CacheDefaultTTL,
			Logger:      logger,
		})
	}

	return cache.NewTTLCache(&cache.TTLConfig{
		DefaultTTL: cfg.CacheDefaultTTL,
		Logger:     logger,
	}), nil
}

func setupEvaluator(logger *zap.Logger, opts *Options) *alerts.Evaluator {
	evaluator := alerts.NewEvaluator(&alerts.Config{Logger: logger})
	for _, t := range opts.Alerts {
		evaluator.Set(t.Symbol, t.High, t.Low)
	}
	return evaluator
}

func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(ctx, &storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func registerStorageCheck(hc *healthprobe.HealthChecker, s storage.Storage) {
	if p, ok := s.(pinger); ok {
		hc.AddCheck("storage", p.Ping)
	}
}
