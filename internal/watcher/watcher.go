// Package watcher runs the alert evaluator on a cron schedule.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/mselser95/crypto-tracker/internal/alerts"
	"github.com/mselser95/crypto-tracker/internal/storage"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule is used when Config.Schedule is empty.
const DefaultSchedule = "@every 1m"

// PriceSource returns current USD prices for the given symbols.
// Symbols without data are omitted from the result.
type PriceSource interface {
	CurrentPrices(ctx context.Context, symbols []string) map[string]float64
}

// Watcher periodically fetches prices for all alert symbols, evaluates the
// alerts and records every triggered event.
type Watcher struct {
	cron      *cron.Cron
	schedule  string
	prices    PriceSource
	evaluator *alerts.Evaluator
	storage   storage.Storage
	timeout   time.Duration
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// Config holds watcher configuration.
type Config struct {
	Schedule  string
	Prices    PriceSource
	Evaluator *alerts.Evaluator
	Storage   storage.Storage
	Timeout   time.Duration // per-check deadline, defaults to 30s
	Logger    *zap.Logger
}

// New creates a watcher and registers its check job.
func New(cfg *Config) (*Watcher, error) {
	if cfg.Prices == nil {
		return nil, fmt.Errorf("price source is required")
	}
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule:  schedule,
		prices:    cfg.Prices,
		evaluator: cfg.Evaluator,
		storage:   cfg.Storage,
		timeout:   timeout,
		logger:    logger,
	}

	_, err := w.cron.AddFunc(schedule, w.tick)
	if err != nil {
		return nil, fmt.Errorf("register alert check %q: %w", schedule, err)
	}

	return w, nil
}

// Start begins running checks on the schedule until ctx is cancelled or
// Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.cron.Start()

	w.logger.Info("alert-watcher-started", zap.String("schedule", w.schedule))
	return nil
}

// CheckNow runs a single check and returns the events it triggered.
func (w *Watcher) CheckNow(ctx context.Context) []alerts.Event {
	start := time.Now()
	defer func() {
		CheckDurationSeconds.Observe(time.Since(start).Seconds())
	}()
	ChecksTotal.Inc()

	symbols := w.evaluator.Symbols()
	if len(symbols) == 0 {
		return nil
	}

	prices := w.prices.CurrentPrices(ctx, symbols)
	if len(prices) < len(symbols) {
		w.logger.Debug("alert-check-missing-prices",
			zap.Int("symbols", len(symbols)),
			zap.Int("prices", len(prices)))
	}

	events := w.evaluator.Check(prices)
	for i := range events {
		err := w.storage.StoreEvent(ctx, &events[i])
		if err != nil {
			StoreErrorsTotal.Inc()
			w.logger.Error("alert-event-store-failed",
				zap.String("event-id", events[i].ID),
				zap.String("symbol", events[i].Symbol),
				zap.Error(err))
		}
	}

	return events
}

func (w *Watcher) tick() {
	if w.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	events := w.CheckNow(ctx)
	w.logger.Debug("alert-check-complete", zap.Int("triggered", len(events)))
}

// Close stops the schedule and waits for a running check to finish.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}

	<-w.cron.Stop().Done()

	w.logger.Info("alert-watcher-stopped")
	return nil
}
