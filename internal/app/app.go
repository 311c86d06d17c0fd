package app

import (
	"context"
	"sync"

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

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	cache         cache.Cache
	accessor      *market.Accessor
	evaluator     *alerts.Evaluator
	watcher       *watcher.Watcher
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	Alerts []alerts.Thresholds // alerts to arm at startup
}
